package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backtest   Backtest            `yaml:"backtest"`
	Strategies []StrategyReference `yaml:"strategies"`
	SourceRef  SourceReference     `yaml:"source"`
	Report     string              `yaml:"report"`
	Plot       string              `yaml:"plot"`
	Fetch      Fetch               `yaml:"fetch"`
}

func Read(r io.Reader) (*Config, error) {
	cfg := Config{
		Backtest: Backtest{
			InitialCapital: 10_000,
			WarmupPeriod:   50,
		},
	}
	d := yaml.NewDecoder(r)
	err := d.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	if len(cfg.Strategies) == 0 {
		cfg.Strategies = defaultStrategies()
	}

	return &cfg, nil
}

func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	return Read(f)
}

type Backtest struct {
	InitialCapital float64 `yaml:"initial_capital"`
	WarmupPeriod   int     `yaml:"warmup_period"`
}

type Fetch struct {
	BaseUrl  string         `yaml:"base_url"`
	ApiKey   string         `yaml:"api_key"`
	Secret   string         `yaml:"secret"`
	Feed     string         `yaml:"feed"`
	Symbols  []string       `yaml:"symbols"`
	Start    time.Time      `yaml:"start"`
	End      time.Time      `yaml:"end"`
	DataDir  string         `yaml:"data_dir"`
	StoreRef StoreReference `yaml:"store"`
}

// strategy configs

type Momentum struct{}

type Crossover struct {
	ShortWindow int `yaml:"short_window"`
	LongWindow  int `yaml:"long_window"`
}

type RSI struct {
	Period     int     `yaml:"period"`
	Oversold   float64 `yaml:"oversold"`
	Overbought float64 `yaml:"overbought"`
}

type Strategy interface{}

type StrategyReference struct {
	Strategy Strategy
}

func defaultStrategies() []StrategyReference {
	return []StrategyReference{
		{Strategy: Momentum{}},
		{Strategy: Crossover{ShortWindow: 20, LongWindow: 50}},
		{Strategy: RSI{Period: 14, Oversold: 30, Overbought: 70}},
	}
}

func (w *StrategyReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid strategy yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "momentum":
		var momentum Momentum
		if err := value.Content[1].Decode(&momentum); err != nil {
			return fmt.Errorf("failed parsing momentum strategy config: %w", err)
		}
		w.Strategy = momentum
	case "crossover":
		crossover := Crossover{ShortWindow: 20, LongWindow: 50}
		if err := value.Content[1].Decode(&crossover); err != nil {
			return fmt.Errorf("failed parsing crossover strategy config: %w", err)
		}
		w.Strategy = crossover
	case "rsi":
		rsi := RSI{Period: 14, Oversold: 30, Overbought: 70}
		if err := value.Content[1].Decode(&rsi); err != nil {
			return fmt.Errorf("failed parsing rsi strategy config: %w", err)
		}
		w.Strategy = rsi
	default:
		return fmt.Errorf("unknown strategy type: %s", key)
	}

	return nil
}

// source configs

type CSV struct {
	Path string `yaml:"path"`
}

type Alpaca struct {
	BaseUrl string    `yaml:"base_url"`
	ApiKey  string    `yaml:"api_key"`
	Secret  string    `yaml:"secret"`
	Feed    string    `yaml:"feed"`
	Symbol  string    `yaml:"symbol"`
	Start   time.Time `yaml:"start"`
	End     time.Time `yaml:"end"`
}

type Parquet struct {
	Dir    string    `yaml:"dir"`
	Symbol string    `yaml:"symbol"`
	Start  time.Time `yaml:"start"`
	End    time.Time `yaml:"end"`
}

type SQLite struct {
	Path   string    `yaml:"path"`
	Symbol string    `yaml:"symbol"`
	Start  time.Time `yaml:"start"`
	End    time.Time `yaml:"end"`
}

type Source interface{}

type SourceReference struct {
	Source Source
}

func (w *SourceReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid source yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "csv":
		var csv CSV
		if err := value.Content[1].Decode(&csv); err != nil {
			return fmt.Errorf("failed parsing csv source config: %w", err)
		}
		w.Source = csv
	case "alpaca":
		var alpaca Alpaca
		if err := value.Content[1].Decode(&alpaca); err != nil {
			return fmt.Errorf("failed parsing Alpaca source config: %w", err)
		}
		w.Source = alpaca
	case "parquet":
		var parquet Parquet
		if err := value.Content[1].Decode(&parquet); err != nil {
			return fmt.Errorf("failed parsing parquet source config: %w", err)
		}
		w.Source = parquet
	case "sqlite":
		var sqlite SQLite
		if err := value.Content[1].Decode(&sqlite); err != nil {
			return fmt.Errorf("failed parsing sqlite source config: %w", err)
		}
		w.Source = sqlite
	default:
		return fmt.Errorf("unknown source type: %s", key)
	}

	return nil
}

// store configs

type ParquetStore struct {
	Dir string `yaml:"dir"`
}

type SQLiteStore struct {
	Path string `yaml:"path"`
}

type Store interface{}

type StoreReference struct {
	Store Store
}

func (w *StoreReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid store yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "parquet":
		var parquet ParquetStore
		if err := value.Content[1].Decode(&parquet); err != nil {
			return fmt.Errorf("failed parsing parquet store config: %w", err)
		}
		w.Store = parquet
	case "sqlite":
		var sqlite SQLiteStore
		if err := value.Content[1].Decode(&sqlite); err != nil {
			return fmt.Errorf("failed parsing sqlite store config: %w", err)
		}
		w.Store = sqlite
	default:
		return fmt.Errorf("unknown store type: %s", key)
	}

	return nil
}
