// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package cmd

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/avendel/fireguard/data"
	"github.com/avendel/fireguard/ledger"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live terminal dashboard",
	Long:  `Shows the live helmet snapshot and recent history in the terminal.`,
	Run:   watch,
}

func init() {
	RootCmd.AddCommand(watchCmd)
	viper.BindPFlags(watchCmd.Flags())
}

func watch(cmd *cobra.Command, args []string) {
	led := ledger.New(viper.GetString("helmet"), viper.GetString("wearer"), ledger.DefaultCapacity)

	program := tea.NewProgram(watchModel{ledger: led}, tea.WithAltScreen())

	samples := make(chan data.Sample, 1)
	opts := MQTT.NewClientOptions().AddBroker(viper.GetString("broker")).SetClientID(clientID("watch")).SetCleanSession(true)
	opts.OnConnect = func(c MQTT.Client) {
		subscribeSamples(c, samples)
	}
	opts.OnConnectionLost = func(c MQTT.Client, e error) {
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
				continue
			}
			led.Append(sample.Reading)
			program.Send(sampleMsg{})
		}
	}()

	if _, err := program.Run(); err != nil {
		jww.ERROR.Println(err)
		os.Exit(1)
	}
}

// sampleMsg signals that the ledger has a new reading.
type sampleMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Background(lipgloss.Color("17")).
			Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(14)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	smokeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type watchModel struct {
	ledger *ledger.Ledger
	width  int
	height int
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case sampleMsg:
		// View reads the ledger directly; nothing to do here.
	}
	return m, nil
}

func (m watchModel) View() string {
	current := m.ledger.Current()
	history := m.ledger.History()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("FIREGUARD %s — %s", current.HelmetID, current.Name)))
	b.WriteString("\n\n")

	if current.Timestamp.IsZero() {
		b.WriteString(dimStyle.Render("waiting for readings..."))
		b.WriteString("\n")
		return b.String()
	}

	heartRate := "—"
	if current.HeartRate != nil {
		heartRate = fmt.Sprintf("%.0f bpm", *current.HeartRate)
	}
	flame := "no"
	if current.FlameDetected {
		flame = alertStyle.Render("YES")
	}

	rows := []struct{ label, value string }{
		{"Updated", current.Timestamp.Format("15:04:05")},
		{"Temperature", fmt.Sprintf("%.1f °C", current.Temperature)},
		{"MQ2 Gas", fmt.Sprintf("%d", current.GasLevel)},
		{"Flame", flame},
		{"Heart Rate", heartRate},
		{"SpO2", fmt.Sprintf("%.1f %%", current.BloodOxygen)},
		{"Alert", alertText(current.AlertStatus)},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(row.value)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Temp history"))
	b.WriteString(sparkline(temperatures(history), 40))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d readings retained · q to quit", len(history))))
	b.WriteString("\n")

	return b.String()
}

func alertText(status data.AlertStatus) string {
	switch status {
	case data.AlertActive:
		return alertStyle.Render(string(status))
	case data.AlertSmoke:
		return smokeStyle.Render(string(status))
	default:
		return normalStyle.Render(string(status))
	}
}

func temperatures(history []data.Reading) []float64 {
	values := make([]float64, len(history))
	for i, r := range history {
		values[i] = r.Temperature
	}
	return values
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline renders the last width values as a one-line chart.
func sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return dimStyle.Render("—")
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if max > min {
			idx = int((v - min) / (max - min) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
