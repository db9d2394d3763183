package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rumormill/internal/config"
	"rumormill/internal/gossip"
	"rumormill/internal/node"
	"rumormill/internal/rumor"
	"rumormill/internal/wire"
)

var rootCmd = &cobra.Command{
	Use:   "rumormill",
	Short: "A SWIM membership and rumor gossip daemon",
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run a member of the network",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStart()
	},
}

var injectCmd = &cobra.Command{
	Use:   "inject <service-group> <file>",
	Short: "Publish a service configuration or file into a running network",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInject(cmd.Context(), args[0], args[1])
	},
}

var (
	cfgFile     string
	watchCfg    bool
	injectPeer  string
	injectKey   string
	injectAsCfg bool
	injectInc   uint64
)

func init() {
	startCmd.Flags().StringVar(&cfgFile, "config", "", "specifies a config file to load")
	startCmd.Flags().BoolVar(&watchCfg, "watch-config", false, "reload the log level when the config file changes")

	configFlags := pflag.NewFlagSet("", pflag.ContinueOnError)
	configFlags.String("member-id", "", "the member id (random when empty)")
	configFlags.String("listen", "0.0.0.0", "the local address to bind to")
	configFlags.Int("swim-port", 9638, "the failure detection udp port")
	configFlags.Int("gossip-port", 9639, "the gossip udp port")
	configFlags.String("advertise", "", "the address peers use to reach this member")
	configFlags.String("peers", "", "seed members as id=host:port,...")
	configFlags.String("ring-key", "", "symmetric ring key as name:base64")
	configFlags.Duration("probe-interval", time.Second, "time between probes")
	configFlags.Duration("ping-timeout", time.Second, "time to wait for a direct ack")
	configFlags.Duration("pingreq-timeout", 2*time.Second, "time to wait for an indirect ack")
	configFlags.Duration("suspicion-timeout", 5*time.Second, "time before a suspect member is confirmed")
	configFlags.Duration("push-interval", time.Second, "time between gossip rounds")
	configFlags.Duration("election-interval", time.Second, "time between election restart checks")
	configFlags.String("admin-listen", "127.0.0.1:9631", "grpc health and reflection address (empty disables)")
	configFlags.String("web-listen", "127.0.0.1:9632", "metrics and census address (empty disables)")
	configFlags.String("etcd-endpoints", "", "comma separated etcd endpoints for discovery")
	configFlags.String("etcd-prefix", "/rumormill/members", "etcd key prefix for discovery")
	configFlags.String("log-level", "info", "the log level to run at")
	startCmd.Flags().AddFlagSet(configFlags)

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.SetEnvPrefix("rumormill")
	viper.AutomaticEnv()
	_ = viper.BindPFlags(configFlags)

	injectCmd.Flags().StringVar(&injectPeer, "peer", "127.0.0.1:9638", "failure detection address of a running member")
	injectCmd.Flags().StringVar(&injectKey, "ring-key", "", "symmetric ring key as name:base64")
	injectCmd.Flags().BoolVar(&injectAsCfg, "config", false, "publish the file as the group's service configuration")
	injectCmd.Flags().Uint64Var(&injectInc, "incarnation", 0, "rumor incarnation (defaults to the current unix time)")

	rootCmd.AddCommand(startCmd, injectCmd)
}

func getLogger() (zap.AtomicLevel, *zap.Logger) {
	logLevel := zap.NewAtomicLevel()
	logConfig := zap.NewProductionEncoderConfig()
	logConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(logConfig), zapcore.AddSync(os.Stdout), logLevel)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logLevel, logger
}

func applyLogLevel(logger *zap.Logger, logLevel zap.AtomicLevel, level string) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		logger.Warn("invalid log level specified, using INFO instead", zap.String("level", level))
		parsed = zapcore.InfoLevel
	}
	logLevel.SetLevel(parsed)
}

func runStart() error {
	logLevel, logger := getLogger()
	defer logger.Sync()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	applyLogLevel(logger, logLevel, cfg.LogLevel)

	logger.Info("parsed configuration",
		zap.String("memberID", cfg.MemberID),
		zap.String("swim", cfg.SwimListen()),
		zap.String("gossip", cfg.GossipListen()),
		zap.Int("peers", len(cfg.Peers)),
		zap.Bool("encrypted", cfg.RingKey != ""),
		zap.Strings("etcd", cfg.EtcdEndpoints))

	if cfgFile != "" && watchCfg {
		viper.OnConfigChange(func(e fsnotify.Event) {
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				return
			}
			logger.Info("config file changed, reloading log level", zap.String("file", e.Name))
			applyLogLevel(logger, logLevel, viper.GetString("log-level"))
		})
		viper.WatchConfig()
	}

	n, err := node.New(cfg, logger, &logLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := n.Start(ctx); err != nil {
		n.Stop()
		return err
	}
	<-ctx.Done()
	logger.Info("shutting down")
	n.Stop()
	return nil
}

func runInject(ctx context.Context, group, path string) error {
	if _, err := rumor.ParseServiceGroup(group); err != nil {
		return err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg := config.Default()
	cfg.RingKey = injectKey
	crypter, err := cfg.Crypter()
	if err != nil {
		return err
	}

	inc := injectInc
	if inc == 0 {
		inc = uint64(time.Now().Unix())
	}

	var payload rumor.Rumor
	if injectAsCfg {
		payload = &rumor.ServiceConfig{ServiceGroup: group, Incarnation: inc, Config: body}
	} else {
		payload = &rumor.ServiceFile{ServiceGroup: group, Incarnation: inc, Filename: filepath.Base(path), Body: body}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	codec := wire.NewCodec(crypter)
	if err := gossip.Inject(ctx, injectPeer, codec, []wire.Rumor{{FromID: "rumormill-inject", Payload: payload}}); err != nil {
		return fmt.Errorf("failed to inject: %w", err)
	}
	fmt.Printf("injected %s into %s (incarnation %d)\n", rumor.KeyOf(payload), group, inc)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
