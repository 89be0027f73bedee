// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/avendel/fireguard/data"
)

// pushCmd represents the push command
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push readings to a remote dashboard",
	Long: `Uploads finalized readings to a remote ingest endpoint, batching
bursts with a short settle timer.`,
	Run: push,
}

func init() {
	RootCmd.AddCommand(pushCmd)

	pushCmd.Flags().String("push_url", "", "Remote ingest endpoint")
	pushCmd.Flags().String("push_key", "", "Upload key for the ingest endpoint")
	pushCmd.Flags().Bool("fahrenheit", false, "Convert temperatures to Fahrenheit on upload")

	viper.BindPFlags(pushCmd.Flags())
}

func push(cmd *cobra.Command, args []string) {
	if verbose {
		jww.SetStdoutThreshold(jww.LevelTrace)
	}

	samples := make(chan data.Sample)

	opts := MQTT.NewClientOptions().AddBroker(viper.GetString("broker")).SetClientID(clientID("push")).SetCleanSession(true)
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

	timer := time.NewTimer(5 * time.Second)
	timer.Stop()

	params := make(map[string]string)
	for {
		select {
		case <-timer.C:
			// timer expired
			if len(params) > 1 {
				sendData(params)
				// Keep the last values so sparse cycles still upload a
				// full record.
			}
		case sample := <-samples:
			// incoming data
			pushAddData(sample, params)
			timer.Stop()
			timer.Reset(5 * time.Second)
		case <-time.After(30 * time.Minute):
			jww.ERROR.Println("No data in 30 minutes, reconnecting")
			connect(client)
		}
	}
}

func sendData(params map[string]string) {
	v := url.Values{}
	for key, value := range params {
		v.Add(key, value)
	}
	v.Add("action", "updateraw")
	v.Add("key", viper.GetString("push_key"))
	jww.INFO.Println(v)

	res, err := http.PostForm(viper.GetString("push_url"), v)
	if err != nil {
		jww.ERROR.Println(err)
		return
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		jww.ERROR.Println(err)
		return
	}
	if res.StatusCode != http.StatusOK {
		jww.ERROR.Printf("Upload rejected (%d): %s", res.StatusCode, body)
	}
}

func pushAddData(sample data.Sample, params map[string]string) {
	temperature := sample.Temperature
	if viper.GetBool("fahrenheit") {
		temperature = temperature*1.8 + 32
	}

	params["id"] = sample.HelmetID
	params["temperature"] = strconv.FormatFloat(temperature, 'f', 2, 64)
	params["mq2_value"] = strconv.Itoa(sample.GasLevel)
	params["flame_detected"] = fmt.Sprintf("%t", sample.FlameDetected)
	params["spo2"] = strconv.FormatFloat(sample.BloodOxygen, 'f', 2, 64)
	params["alert_status"] = string(sample.AlertStatus)
	if sample.HeartRate != nil {
		params["heart_rate"] = strconv.FormatFloat(*sample.HeartRate, 'f', 2, 64)
	}

	params["dateutc"] = sample.Timestamp.UTC().Format("2006-01-02 15:04:05")
}
