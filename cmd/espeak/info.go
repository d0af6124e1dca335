package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/invopop/jsonschema"
	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
	"github.com/koscakluka/ema-espeak/core/events"
	"github.com/koscakluka/ema-espeak/core/server"
	"github.com/koscakluka/ema-espeak/core/speaker"
	"github.com/koscakluka/ema-espeak/internal/config"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func withBridge(ctx context.Context, cfg *config.Config, f func(b *bridge.Bridge) error) error {
	e, err := newEngine(cfg)
	if err != nil {
		return err
	}
	b, err := startBridge(ctx, cfg, e, bridge.WithSynchronous(true), bridge.WithPlayback(false))
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(context.Background()); err != nil {
			slog.Warn("failed to close bridge", "error", err)
		}
	}()
	return f(b)
}

func runVoices(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("voices", flag.ContinueOnError)
	language := flags.String("language", "", "only list voices speaking this language prefix")
	asJSON := flags.Bool("json", false, "print JSON instead of a table")
	if err := flags.Parse(args); err != nil {
		return err
	}

	return withBridge(ctx, cfg, func(b *bridge.Bridge) error {
		var voices []bridge.VoiceInfo
		for _, voice := range b.ListVoices() {
			if *language == "" || slices.ContainsFunc(voice.Languages, func(l string) bool {
				return strings.HasPrefix(l, *language)
			}) {
				voices = append(voices, voice)
			}
		}

		if *asJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(voices)
		}

		t := newTable("NAME", "LANGUAGES", "GENDER", "AGE", "IDENTIFIER")
		for _, voice := range voices {
			t.Row(voice.Name, strings.Join(voice.Languages, ","), voice.Gender.String(), strconv.Itoa(voice.Age), voice.Identifier)
		}
		fmt.Println(t)
		return nil
	})
}

func runParams(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("params", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}

	return withBridge(ctx, cfg, func(b *bridge.Bridge) error {
		defaults, err := b.DefaultParameters()
		if err != nil {
			return err
		}

		parameters := newTable("PARAMETER", "DEFAULT", "CURRENT")
		for _, parameter := range engine.Parameters() {
			current, err := b.GetParameter(parameter, true)
			if err != nil {
				return err
			}
			parameters.Row(parameter.String(), strconv.Itoa(defaults.Get(parameter)), strconv.Itoa(current))
		}
		fmt.Println(parameters)

		constants := bridge.Constants()
		tables := newTable("TABLE", "NAME", "VALUE")
		for _, name := range slices.Sorted(maps.Keys(constants)) {
			values := constants[name]
			for _, constant := range slices.Sorted(maps.Keys(values)) {
				tables.Row(name, constant, strconv.Itoa(values[constant]))
			}
		}
		fmt.Println(tables)
		fmt.Printf("sample rate: %d Hz, output: %s\n", b.SampleRate(), b.OutputMode())
		return nil
	})
}

var schemaRecords = map[string]any{
	"command":      server.Command{},
	"envelope":     events.Envelope{},
	"notification": bridge.Notification{},
	"parameters":   bridge.Parameters{},
	"profile":      speaker.Profile{},
	"reply":        server.Reply{},
	"voice":        bridge.VoiceSelection{},
}

func runSchema(_ context.Context, _ *config.Config, args []string) error {
	flags := flag.NewFlagSet("schema", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}

	names := flags.Args()
	if len(names) == 0 {
		names = slices.Sorted(maps.Keys(schemaRecords))
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	schemas := map[string]*jsonschema.Schema{}
	for _, name := range names {
		record, ok := schemaRecords[name]
		if !ok {
			return fmt.Errorf("unknown record %q, known: %s", name, strings.Join(slices.Sorted(maps.Keys(schemaRecords)), ", "))
		}
		schemas[name] = reflector.Reflect(record)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if len(schemas) == 1 {
		return encoder.Encode(schemas[names[0]])
	}
	return encoder.Encode(schemas)
}
