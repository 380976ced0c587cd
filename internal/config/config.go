package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host      string    `koanf:"host"`
	Frontend  Frontend  `koanf:"frontend"`
	Source    Source    `koanf:"source"`
	Dashboard Dashboard `koanf:"dashboard"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

// Source selects where the tracker snapshot is fetched from.
// Mode is one of "http", "file" or "sheets".
type Source struct {
	Mode   string `koanf:"mode"`
	URL    string `koanf:"url"`
	Path   string `koanf:"path"`
	Sheets Sheets `koanf:"sheets"`
}

type Sheets struct {
	SpreadsheetId   string `koanf:"spreadsheetid"`
	SheetName       string `koanf:"sheetname"`
	CredentialsFile string `koanf:"credentialsfile"`
}

// Dashboard carries the aggregation configuration: color equivalence sets,
// the due-soon window, panel definitions and audit windows.
type Dashboard struct {
	CompletedColors   []string `koanf:"completedcolors"`
	OverdueColors     []string `koanf:"overduecolors"`
	WhiteColors       []string `koanf:"whitecolors"`
	DueSoonWindowDays int      `koanf:"duesoonwindowdays"`
	Panels            []Panel  `koanf:"panels"`
	Audits            []Audit  `koanf:"audits"`
}

// Panel selects a sub-aggregation: tasks whose label contains any of the
// keywords (case-insensitive) belong to the panel.
type Panel struct {
	Name     string   `koanf:"name"`
	Keywords []string `koanf:"keywords"`
}

// Audit is a named audit window with ISO (YYYY-MM-DD) start and end dates.
type Audit struct {
	Name  string `koanf:"name"`
	Start string `koanf:"start"`
	End   string `koanf:"end"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Frontend: Frontend{
			Enabled: true,
		},
		Source: Source{
			Mode: "http",
		},
		Dashboard: Dashboard{
			CompletedColors:   []string{"#00ff00", "#00b050", "#92d050"},
			OverdueColors:     []string{"#ff0000", "#c00000", "#ff5050"},
			WhiteColors:       []string{"", "#ffffff", "#fff", "white"},
			DueSoonWindowDays: 30,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "COMPLYVIEW_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "COMPLYVIEW_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
