package config

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Will be set by go-build
var (
	Version string
	Rev     string
)

func Parse() *Config {
	// Set log format
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	}
	logrus.SetFormatter(formatter)
	logrus.SetOutput(colorable.NewColorableStderr()) // For Windows

	showVersion := pflag.BoolP("version", "v", false, "Show version number")
	showHelp := pflag.BoolP("help", "h", false, "Show usage message")
	pflag.CommandLine.MarkHidden("help")
	pflag.BoolP("debug", "d", false, "Enable debug mode")
	pflag.StringSlice("coins", []string{"bitcoin", "ethereum", "solana", "cardano"},
		"Comma-separated CoinGecko coin ids to track")
	pflag.StringP("currency", "u", "usd", fmt.Sprintf("Quote currency, one of %v", SupportedCurrencies))
	pflag.IntP("refresh", "r", 45, fmt.Sprintf("Refresh interval in seconds, clamped to [%d, %d], "+
		"\nCoinGecko rate limits aggressively so keep it modest", MinRefreshSeconds, MaxRefreshSeconds))
	pflag.Bool("chart", true, "Render a price line chart per coin")
	pflag.Int("chart-days", 1, fmt.Sprintf("Chart lookback window in days, one of %v", SupportedChartDays))
	pflag.IntP("timeout", "t", 10, "HTTP request timeout in seconds")
	pflag.StringP("proxy", "p", "", "Proxy used when sending HTTP request \n(eg. "+
		"\"http://localhost:7777\", \"https://localhost:7777\", \"socks5://localhost:1080\")")

	var configFile string
	pflag.StringVarP(&configFile, "config-file", "c", "", "Config file path, "+
		"by default coin-dash uses \"coin_dash.yml\" in current directory or $HOME as config file")
	pflag.CommandLine.SortFlags = false
	pflag.Usage = showUsageAndExit
	pflag.Parse()

	if *showHelp {
		showUsageAndExit()
	}

	if *showVersion {
		fmt.Fprintf(os.Stderr, "Version %s", Version)
		if Rev != "" {
			fmt.Fprintf(os.Stderr, ", build %s", Rev)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}

	viper.BindPFlags(pflag.CommandLine)
	// Set configure file
	viper.SetConfigName("coin_dash") // name of config file (without extension)
	viper.AddConfigPath(".")         // path to look for the config file in
	viper.AddConfigPath("$HOME")     // optionally look for config in the HOME directory
	viper.AddConfigPath("/etc")      // and /etc
	if configFile != "" {
		viper.SetConfigFile(configFile)
	}
	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			// Defaults cover everything, a config file is optional
		default:
			logrus.Warnf("Error reading config file: %v", err)
		}
	} else {
		// Pick up edits on the next refresh cycle
		viper.WatchConfig()
	}

	cfg := Snapshot()
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Debugln("Using config file:", viper.ConfigFileUsed())
	return cfg
}

// Snapshot re-reads the live viper values. The refresh driver calls this at the
// start of every cycle so config-file edits land without a restart.
func Snapshot() *Config {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logrus.Fatalf("Failed to parse %q, error: %s\n", viper.ConfigFileUsed(), err)
	}
	if pflag.NArg() != 0 {
		cfg.Coins = pflag.Args()
	}
	cfg.Normalize()
	return &cfg
}

func showUsageAndExit() {
	// Print usage message and exit
	fmt.Fprintf(os.Stderr, "\nUsage: %s [Options] [coin-id ...]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "\nLive CoinGecko dashboard in the terminal: summary cards, a market table and price charts")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	pflag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nCoin ids:")
	fmt.Fprintln(os.Stderr, "  Use CoinGecko ids, not tickers (eg. \"bitcoin\", \"ethereum\", \"dogecoin\").")
	fmt.Fprintln(os.Stderr, "\nConfig file (coin_dash.yml):")
	fmt.Fprintln(os.Stderr, "  coins: [bitcoin, ethereum]\n  currency: usd\n  refresh: 45\n  chart: true\n  chart-days: 7")
	os.Exit(0)
}
