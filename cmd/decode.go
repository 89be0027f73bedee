// Copyright © 2026 Aron Vendel <aron@avendel.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"encoding/json"
	"io"
	"os"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
	"github.com/tarm/serial"

	"github.com/avendel/fireguard/data"
	"github.com/avendel/fireguard/decoder"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode serial data",
	Long: `Decodes the line stream coming from the helmet's sensor head and
publishes every finalized reading to the MQTT broker.`,
	Run: decode,
}

func init() {
	RootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().String("port", "", "Serial port to connect to")
	decodeCmd.Flags().Int("baud", 9600, "Serial baud rate")

	viper.BindPFlags(decodeCmd.Flags())
}

func loop(reader io.Reader, client MQTT.Client) error {
	readings := make(chan data.Reading)
	dec := decoder.New()

	errc := make(chan error, 1)
	go func() {
		errc <- dec.Run(reader, readings)
	}()

	helmet := viper.GetString("helmet")
	for reading := range readings {
		payload, err := json.Marshal(data.Sample{HelmetID: helmet, Reading: reading})
		if err != nil {
			jww.ERROR.Println(err)
			continue
		}
		if token := client.Publish(sampleTopic, 0, false, payload); token.Wait() && token.Error() != nil {
			jww.ERROR.Println("Failed to publish reading:", token.Error())
			continue
		}
		jww.INFO.Printf("Publishing %s -> %s", sampleTopic, payload)
	}
	return <-errc
}

func serialLoop(client MQTT.Client) error {
	c := &serial.Config{
		Name: viper.GetString("port"),
		Baud: viper.GetInt("baud"),
	}
	s, err := serial.OpenPort(c)
	if err != nil {
		return err
	}
	defer s.Close()
	s.Flush()
	return loop(s, client)
}

func decode(cmd *cobra.Command, args []string) {
	if verbose {
		jww.SetStdoutThreshold(jww.LevelTrace)
	}

	opts := MQTT.NewClientOptions().AddBroker(viper.GetString("broker")).SetClientID(clientID("decode")).SetCleanSession(true)

	client := MQTT.NewClient(opts)
	connect(client)
	defer client.Disconnect(0)

	port := viper.GetString("port")
	fi, err := os.Stat(port)
	if err != nil {
		jww.FATAL.Println(err)
		panic(err)
	}

	if fi.Mode()&os.ModeType != 0 {
		err = serialLoop(client)
	} else {
		var file *os.File
		file, err = os.Open(port)
		if err != nil {
			jww.FATAL.Println(err)
			panic(err)
		}
		defer file.Close()
		err = loop(file, client)
	}
	if err != nil {
		jww.FATAL.Println(err)
		panic(err)
	}
}
