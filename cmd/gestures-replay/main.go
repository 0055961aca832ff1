// gestures-replay drives a recorded activity log through a freshly
// built interpreter chain and prints the gestures it reproduces. It is
// an external collaborator: the core never reads a file or owns a
// terminal itself.
//
// Usage examples:
//
//	Replay a log and print every reproduced gesture:
//	    gestures-replay -log session.json
//	Replay against the legacy v1 touchpad stack, watching it live:
//	    gestures-replay -log session.json -stack v1 -tui
//	Print the version:
//	    gestures-replay -v
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/8ff/gestures"
	"github.com/8ff/gestures/activitylog"
	"github.com/8ff/gestures/internal/logx"
	"github.com/8ff/gestures/prop"
)

const version = "gestures-replay version 1.0.0"

// Config holds configurable replay settings, loaded from a JSON file:
// decoded over the defaults, with a warning (not a failure) if the
// file is absent.
type Config struct {
	Device string `json:"device"`
	Stack  string `json:"stack"`
	Debug  bool   `json:"debug"`
}

var config = Config{Device: "touchpad", Stack: "v2", Debug: false}

// PropOverrides is a flat name->value map, shared by the JSON and YAML
// property-override loaders: a bulk seed for the
// PropRegistry a host attaches before replay, so a recorded session
// can be re-driven with the exact tunables it was captured under.
type PropOverrides map[string]float64

func (p PropOverrides) apply(reg *prop.Registry) {
	for name, v := range p {
		if existing := reg.Lookup(name); existing != nil {
			reg.Write(name, prop.DoubleValue(v))
			continue
		}
		reg.RegisterDouble(name, v)
	}
}

func main() {
	var (
		configPath string
		envPath    string
		propsPath  string
		logPath    string
		device     string
		stack      string
		tui        bool
		verFlag    bool
	)
	flag.StringVar(&configPath, "config", "config.json", "Path to JSON config file")
	flag.StringVar(&configPath, "c", "config.json", "Path to JSON config file (alias)")
	flag.StringVar(&envPath, "env", ".env", "Path to .env file for environment-level defaults")
	flag.StringVar(&propsPath, "props", "", "Path to a YAML property-override file")
	flag.StringVar(&logPath, "log", "", "Path to a recorded activity log JSON file to replay")
	flag.StringVar(&device, "device", "", "Device class: touchpad|touchscreen|mouse|pointingstick|multitouchmouse")
	flag.StringVar(&stack, "stack", "", "Touchpad stack version: v1|v2")
	flag.BoolVar(&tui, "tui", false, "Live-render the replay in a terminal UI")
	flag.BoolVar(&verFlag, "v", false, "Print version and exit")
	flag.Parse()

	if verFlag {
		fmt.Println(version)
		return
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "no .env file at %s, using built-in defaults\n", envPath)
	}

	if file, err := os.Open(configPath); err == nil {
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&config); err != nil {
			fmt.Fprintf(os.Stderr, "error decoding config file: %v\n", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "could not open config file %s, using default configuration\n", configPath)
	}

	log := logx.New(os.Stderr, config.Debug)

	if device != "" {
		config.Device = device
	}
	if stack != "" {
		config.Stack = stack
	}

	if logPath == "" {
		log.Errorf("missing -log: nothing to replay")
		os.Exit(1)
	}

	var overrides PropOverrides
	if propsPath != "" {
		data, err := os.ReadFile(propsPath)
		if err != nil {
			log.Warnf("could not read property overrides %s: %v", propsPath, err)
		} else {
			overrides = make(PropOverrides)
			var decodeErr error
			if strings.HasSuffix(propsPath, ".json") {
				decodeErr = json.Unmarshal(data, &overrides)
			} else {
				decodeErr = yaml.Unmarshal(data, &overrides)
			}
			if decodeErr != nil {
				log.Warnf("could not parse property overrides %s: %v", propsPath, decodeErr)
				overrides = nil
			}
		}
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		log.Errorf("reading %s: %v", logPath, err)
		os.Exit(1)
	}
	parsed, err := activitylog.Decode(data)
	if err != nil {
		log.Errorf("parsing %s: %v", logPath, err)
		os.Exit(1)
	}
	log.Infof("loaded %d entries from %s", len(parsed.Entries), logPath)

	class, err := parseDeviceClass(config.Device)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	stackVer := gestures.StackV2
	if strings.EqualFold(config.Stack, "v1") {
		stackVer = gestures.StackV1
	}

	if overrides != nil {
		reg := prop.NewRegistry()
		overrides.apply(reg)
		log.Infof("applied %d property overrides", len(overrides))
	}

	chain := gestures.BuildChain(class, stackVer, nil)
	replay := activitylog.NewReplay(chain, parsed.HardwareProperties)

	if tui {
		if err := runTUI(replay, parsed, log); err != nil {
			log.Errorf("tui: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := replay.Run(parsed); err != nil {
		log.Errorf("replay: %v", err)
		os.Exit(1)
	}
	for _, g := range replay.Produced {
		fmt.Println(describeGesture(g))
	}
	log.Infof("replay produced %d gestures", len(replay.Produced))
}

func parseDeviceClass(name string) (gestures.DeviceClass, error) {
	switch strings.ToLower(name) {
	case "touchpad", "":
		return gestures.DeviceTouchpad, nil
	case "touchscreen":
		return gestures.DeviceTouchscreen, nil
	case "mouse":
		return gestures.DeviceMouse, nil
	case "pointingstick":
		return gestures.DevicePointingStick, nil
	case "multitouchmouse":
		return gestures.DeviceMultitouchMouse, nil
	default:
		return 0, fmt.Errorf("unknown device class %q", name)
	}
}

func describeGesture(g gestures.Gesture) string {
	return fmt.Sprintf("[%7.3f-%7.3f] %-16s dx=%6.2f dy=%6.2f", g.StartTime.Seconds(), g.EndTime.Seconds(), g.Type.String(), g.Move.DX, g.Move.DY)
}
