// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package cmd

import (
	"encoding/json"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/avendel/fireguard/data"
	"github.com/avendel/fireguard/ledger"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"web", "serve", "api"},
	Short:   "Dashboard API server",
	Long:    `Serves the helmet dashboard API, fed by the live reading stream.`,
	Run:     server,
}

func serverInit() {
	if !serverCmd.Flags().HasFlags() {
		serverCmd.Flags().String("address", ":8000", "Address and port to listen on.")
		serverCmd.Flags().String("simulated", "simulated_data", "Directory holding simulated helmet records.")
		serverCmd.Flags().String("livefile", "live_data/h1_history.json", "File the live helmet record is persisted to.")
		serverCmd.Flags().Int("capacity", ledger.DefaultCapacity, "Readings retained per helmet.")
	}
}

func init() {
	RootCmd.AddCommand(serverCmd)
	serverInit()
	viper.BindPFlags(serverCmd.Flags())
}

func server(cmd *cobra.Command, args []string) {
	if verbose {
		jww.SetStdoutThreshold(jww.LevelTrace)
	}

	db, err := data.OpenDatabase()
	if err != nil {
		jww.FATAL.Println(err)
		panic(err)
	}
	defer db.Close()

	led := ledger.New(viper.GetString("helmet"), viper.GetString("wearer"), viper.GetInt("capacity"))

	livefile := viper.GetString("livefile")
	if rec, err := data.LoadRecord(livefile); err == nil {
		led.Restore(rec)
		jww.INFO.Printf("Restored %d readings from %s", led.Len(), livefile)
	}

	samples := make(chan data.Sample, 1)

	opts := MQTT.NewClientOptions().AddBroker(viper.GetString("broker")).SetClientID(clientID("server")).SetCleanSession(true)
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

	go func() {
		helmet := viper.GetString("helmet")
		for sample := range samples {
			if sample.HelmetID != helmet {
				jww.DEBUG.Println("Ignoring sample from", sample.HelmetID)
				continue
			}
			led.Append(sample.Reading)
			if err := data.SaveRecord(livefile, led.Record()); err != nil {
				jww.ERROR.Println(err)
			}
		}
	}()

	router := mux.NewRouter()

	router.HandleFunc("/helmets", func(w http.ResponseWriter, r *http.Request) {
		helmetsHandler(w, led)
	}).Methods("GET")

	router.HandleFunc("/current.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(led.Current())
	}).Methods("GET")

	router.HandleFunc("/history.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(led.History())
	}).Methods("GET")

	router.HandleFunc("/stored.json", func(w http.ResponseWriter, r *http.Request) {
		storedHandler(w, r, db)
	}).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// The dashboard is served from anywhere, so the API stays wide open.
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"*"}),
	)

	listener, err := net.Listen("tcp", viper.GetString("address"))
	if err != nil {
		jww.FATAL.Println(err)
		panic(err)
	}
	jww.INFO.Println("Listening on", listener.Addr().String())

	http.Serve(listener, cors(router))
}

// computeTime turns a "24h" / "7d" window into a Unix start time.
func computeTime(timestr string) int64 {
	rxp := regexp.MustCompile(`^([0-9]+)([hd])$`)
	if !rxp.MatchString(timestr) {
		timestr = "24h"
	}
	match := rxp.FindStringSubmatch(timestr)

	val, _ := strconv.ParseInt(match[1], 10, 64)
	var mult int64
	switch match[2] {
	case "h":
		mult = 60 * 60
	default:
		mult = 60 * 60 * 24
	}
	return time.Now().UTC().Unix() - val*mult
}

// storedHandler serves readings from the database, for charts that reach
// further back than the in-memory history.
func storedHandler(w http.ResponseWriter, r *http.Request, db *data.Database) {
	helmet := r.FormValue("helmet")
	if helmet == "" {
		helmet = viper.GetString("helmet")
	}
	start := computeTime(r.FormValue("time"))

	readings := []data.Reading{}
	if ch := db.Readings(helmet, start); ch != nil {
		for reading := range ch {
			readings = append(readings, reading)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(readings)
}

// helmetsHandler serves every known helmet: the live one first, then the
// simulated records.
func helmetsHandler(w http.ResponseWriter, led *ledger.Ledger) {
	var helmets []interface{}

	live := led.Record()
	if len(live.History) == 0 && live.Timestamp.IsZero() {
		helmets = append(helmets, map[string]string{
			"helmet_id": live.HelmetID,
			"status":    "No recent data",
		})
	} else {
		helmets = append(helmets, live)
	}

	simulated, err := data.LoadSimulated(viper.GetString("simulated"))
	if err != nil {
		jww.WARN.Println("No simulated helmet records:", err)
	}
	for _, rec := range simulated {
		helmets = append(helmets, rec)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"helmets": helmets})
}
