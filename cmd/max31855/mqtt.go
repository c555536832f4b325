// Copyright (c) 2016 by Thorsten von Eicken, see LICENSE file for details

package main

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// mq is a handle onto a MQTT broker connection.
type mq struct {
	conn mqtt.Client
}

// newMQ connects to the broker at addr (host:port).
func newMQ(addr string, debug LogPrintf) (*mq, error) {
	hostname, _ := os.Hostname()
	id := "max31855-" + hostname
	if debug != nil {
		debug("Connecting to MQTT broker %s with client id %s", addr, id)
	}
	mqtt.ERROR = log.New(os.Stderr, "", 0)
	opts := mqtt.NewClientOptions().AddBroker("tcp://" + addr)
	opts.ClientID = id

	conn := mqtt.NewClient(opts)
	token := conn.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, errors.New("timeout connecting")
	}
	if err := token.Error(); err != nil {
		return nil, err
	}
	return &mq{conn: conn}, nil
}

// Publish JSON encodes the payload and publishes it with QoS 1.
func (mq *mq) Publish(topic string, payload interface{}) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	token := mq.conn.Publish(topic, 1, false, jsonPayload)
	if !token.WaitTimeout(2 * time.Second) {
		return errors.New("timeout publishing to " + topic)
	}
	return token.Error()
}

func (mq *mq) Close() {
	mq.conn.Disconnect(250)
}
