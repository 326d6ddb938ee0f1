package cli

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fincorehq/tellerguard/pkg/config"
	"github.com/fincorehq/tellerguard/pkg/system"
)

// Config carries the injectable pieces of the CLI, mostly for tests.
type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
	InputReader  io.Reader
}

type runtimeState struct {
	configPath string
	debug      bool
	cfg        *config.Config
	logger     *zap.Logger
	writer     io.Writer
	reader     io.Reader
	buffered   *bufio.Reader
}

// input returns a single buffered reader over the CLI input so consecutive
// prompts do not drop buffered lines.
func (rt *runtimeState) input() *bufio.Reader {
	if rt.buffered == nil {
		rt.buffered = bufio.NewReader(rt.reader)
	}
	return rt.buffered
}

func DefaultConfig() Config {
	return Config{
		OutputWriter: os.Stdout,
		InputReader:  os.Stdin,
	}
}

// NewRootCommand builds the tellerguard command tree.
func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{
		configPath: cfg.ConfigPath,
		writer:     cfg.OutputWriter,
		reader:     cfg.InputReader,
	}

	root := &cobra.Command{
		Use:           "tellerguard",
		Short:         "Banking teller security core",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.reader == nil {
				rt.reader = os.Stdin
			}

			logger, err := system.BuildLogger(rt.debug)
			if err != nil {
				return err
			}
			rt.logger = logger

			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			// Shell completion runs as "completion <shell>", so the skip
			// must also match the parent.
			if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
				return nil
			}

			loaded, err := config.Load(rt.configPath)
			if err != nil {
				return err
			}
			rt.cfg = &loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newLoginCommand(rt),
		newApproveCommand(rt),
		newEncryptCommand(rt),
		newDecryptCommand(rt),
		newVersionCommand(rt),
	)

	return root
}

func (rt *runtimeState) ensureConfig() (*config.Config, error) {
	if rt.cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return rt.cfg, nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}
