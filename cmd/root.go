// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/avendel/fireguard/data"
)

var cfgFile string
var verbose bool

// sampleTopic carries every finalized reading between the decoder and its
// consumers.
const sampleTopic = "/fireguard/sample"

// This represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "fireguard",
	Short: "Smart Safety Helmet Interface",
	Long: `Fireguard is a decoder, data logger and web interface for smart
safety helmet telemetry.

It decodes the line stream coming from the helmet's Arduino sensor head
(temperature, MQ2 gas level, flame and smoke detection, heart rate and
blood oxygen), maintains a bounded reading history with a live snapshot,
stores readings in a database, and serves the dashboard API.`,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		jww.ERROR.Println(err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is fireguard.yaml)")
	RootCmd.PersistentFlags().String("broker", "tcp://localhost:1883", "MQTT Server")
	RootCmd.PersistentFlags().String("database", "fireguard.db", "Database")
	RootCmd.PersistentFlags().String("helmet", "H1", "Helmet ID of the live device")
	RootCmd.PersistentFlags().String("wearer", "John Doe", "Display name of the helmet wearer")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	dbdrivers := data.DBDrivers()
	if len(dbdrivers) > 1 {
		RootCmd.PersistentFlags().String("dbDriver", "sqlite3", "Database Driver, one of ["+strings.Join(dbdrivers, ", ")+"]")
	} else {
		viper.SetDefault("dbDriver", "sqlite3")
	}
	viper.BindPFlags(RootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" { // enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	}

	viper.SetConfigName("fireguard") // name of config file (without extension)
	viper.AddConfigPath("/etc/fireguard/")
	viper.AddConfigPath("$HOME/.fireguard/")
	viper.AddConfigPath(".")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		jww.DEBUG.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// clientID builds a broker-unique MQTT client identity for a subcommand.
func clientID(role string) string {
	return fmt.Sprintf("fireguard-%s-%s", role, uuid.NewString()[:8])
}

// connect dials the broker, backing off exponentially until it succeeds.
func connect(client MQTT.Client) {
	timeout := 1 * time.Second

	for {
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			jww.ERROR.Println(token.Error())
			jww.ERROR.Printf("Waiting %d seconds before reconnecting...", timeout/time.Second)
			time.Sleep(timeout)
			timeout *= 2
			if timeout > 5*time.Minute {
				timeout = 5 * time.Minute
			}
			continue
		}
		break
	}
}

// subscribeSamples wires an MQTT subscription that decodes reading samples
// into the given channel. Used by every consumer subcommand.
func subscribeSamples(c MQTT.Client, samples chan<- data.Sample) {
	if token := c.Subscribe(sampleTopic, 0, func(client MQTT.Client, msg MQTT.Message) {
		r := bytes.NewReader(msg.Payload())
		decoder := json.NewDecoder(r)
		var sample data.Sample
		if err := decoder.Decode(&sample); err != nil {
			jww.ERROR.Println(err)
			return
		}
		samples <- sample
	}); token.Wait() && token.Error() != nil {
		jww.FATAL.Println(token.Error())
		panic(token.Error())
	}
}
