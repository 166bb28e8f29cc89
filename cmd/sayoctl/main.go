// Command sayoctl is an example harness for the sayohid protocol stack: it
// opens an enumerated device, attaches it to a connection manager, and
// serves a small debug HTTP surface over its state. Talking to real
// hardware is out of this package's scope in the same sense as spec.md
// calls transport "out of scope" for the core — this is glue, not a
// product.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "github.com/go-yaml/yaml"
	"github.com/karalabe/hid"

	"github.com/go-sayo/sayohid/connmgr"
	"github.com/go-sayo/sayohid/endpoint"
	"github.com/go-sayo/sayohid/sayoconfig"
)

var (
	// Version is the version number. Typically injected via ldflags with
	// git build.
	Version = "dev"

	// ConfigFileName is what it sounds like.
	ConfigFileName = "sayoctl.yml"
	k              = koanf.New(".")
)

func setupconfig() {
	k.Load(structs.Provider(sayoconfig.Default(), "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `sayoctl talks to an attached analog keyboard/keypad over its application
protocol and exposes a small debug HTTP surface over the connection.

Usage:
	sayoctl <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `sayoctl is configured via its .yaml file. For a primer on YAML, see
https://yaml.org/start.html

When no configuration is provided, the defaults are used. Keys are not
case-sensitive. The command mkconf generates the configuration file with
the default values.`
	fmt.Println(str)
}

func mkconf() {
	c := sayoconfig.Config{}
	if err := k.Unmarshal("", &c); err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := yml.NewEncoder(f).Encode(c); err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := sayoconfig.Config{}
	if err := k.Unmarshal("", &c); err != nil {
		log.Fatal(err)
	}
	if err := yml.NewEncoder(os.Stdout).Encode(c); err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("sayoctl version %v\n", Version)
}

func run() {
	cfg := sayoconfig.Config{}
	if err := k.Unmarshal("", &cfg); err != nil {
		log.Fatal(err)
	}

	infos, err := hid.Enumerate(cfg.VendorID, cfg.ProductID)
	if err != nil {
		log.Fatal(err)
	}
	if len(infos) == 0 {
		log.Fatalf("no device found for vid=%#x pid=%#x", cfg.VendorID, cfg.ProductID)
	}

	mgr := connmgr.New()
	for _, info := range infos {
		dev, err := info.Open()
		if err != nil {
			log.Printf("skipping %s: %v", info.Path, err)
			continue
		}

		probe := func(reportID byte) bool { return reportID == cfg.ReportID }
		d := mgr.Attach(info.Path, nil, cfg.Echo, probe)
		if d == nil {
			dev.Close()
			continue
		}
		ep := endpoint.NewHIDEndpoint(dev, d.ReportID(), d.Decoder)
		d.Client.Endpoint = ep
		d.Client.FrameTimeout = cfg.FrameTimeout()
		d.Client.RequestTimeout = cfg.RequestTimeout()
		d.Client.BulkChunkSize = cfg.BulkChunkSize
		go ep.Run(cfg.FrameTimeout())
		log.Printf("attached %s, report id %#x", info.Path, d.ReportID())
	}

	if cfg.DebugHTTPAddr == "" {
		select {}
	}
	mux := buildDebugMux(mgr)
	log.Println("debug HTTP surface listening at", cfg.DebugHTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.DebugHTTPAddr, mux))
}

func main() {
	var cmd string
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd = strings.ToLower(args[1])
	switch cmd {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "run":
		run()
	case "version":
		pversion()
	default:
		log.Fatal("unknown command")
	}
}
