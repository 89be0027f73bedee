// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package cmd

import (
	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/avendel/fireguard/data"
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record readings to the database",
	Long: `Subscribes to the reading stream and stores every finalized
reading in the configured database.`,
	Run: record,
}

func init() {
	RootCmd.AddCommand(recordCmd)
	viper.BindPFlags(recordCmd.Flags())
}

func record(cmd *cobra.Command, args []string) {
	if verbose {
		jww.SetStdoutThreshold(jww.LevelTrace)
	}

	db, err := data.OpenDatabase()
	if err != nil {
		jww.FATAL.Println(err)
		panic(err)
	}
	defer db.Close()

	samples := make(chan data.Sample, 16)

	opts := MQTT.NewClientOptions().AddBroker(viper.GetString("broker")).SetClientID(clientID("record")).SetCleanSession(true)
	opts.OnConnect = func(c MQTT.Client) {
		subscribeSamples(c, samples)
	}
	opts.OnConnectionLost = func(c MQTT.Client, e error) {
		jww.ERROR.Println("MQTT Connection Lost", e)
		connect(c)
	}
	opts.AutoReconnect = false

	client := MQTT.NewClient(opts)
	connect(client)
	defer client.Disconnect(0)

	for sample := range samples {
		if err := db.InsertReading(sample.HelmetID, sample.Reading); err != nil {
			jww.ERROR.Println(err)
		}
	}
}
