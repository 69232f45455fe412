package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/app"
	"github.com/Neuralic/Tinder-AI/internal/config"
	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/mcptools"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "copilot",
	Short:         "Dating-profile copilot from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// buildComponents carga .env y config y arma los servicios. El logger escribe
// a stderr para no ensuciar la salida (ni el transporte stdio de MCP).
func buildComponents(ctx context.Context) (*app.Components, *zap.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logCfg := zap.NewDevelopmentConfig()
	logCfg.OutputPaths = []string{"stderr"}
	logCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := logCfg.Build()
	if err != nil {
		return nil, nil, err
	}
	c, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return c, logger, nil
}

var analyzeProfileCmd = &cobra.Command{
	Use:   "analyze-profile <photo>",
	Short: "Review a profile photo",
	Long: `Review a profile photo and print the five-part feedback.

Examples:
  copilot analyze-profile ./me.jpg --name Sam --goals "casual dating"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading photo: %w", err)
		}
		req := domain.ProfileRequest{Image: base64.StdEncoding.EncodeToString(raw)}
		req.Name, _ = cmd.Flags().GetString("name")
		req.Age, _ = cmd.Flags().GetString("age")
		req.Gender, _ = cmd.Flags().GetString("gender")
		req.Goals, _ = cmd.Flags().GetString("goals")
		req.Confidence, _ = cmd.Flags().GetString("confidence")

		c, logger, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer c.Close()

		review, err := c.Profiles.Run(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), review.Feedback)
		return nil
	},
}

var analyzeBioCmd = &cobra.Command{
	Use:   "analyze-bio <bio>",
	Short: "Suggest three openers for a bio",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, logger, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer c.Close()

		out, err := c.Advice.AnalyzeBio(cmd.Context(), domain.BioRequest{Bio: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var suggestReplyCmd = &cobra.Command{
	Use:   "suggest-reply <message>",
	Short: "Suggest three replies to a message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		intent, _ := cmd.Flags().GetString("intent")
		tone, _ := cmd.Flags().GetString("tone")

		c, logger, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer c.Close()

		out, err := c.Advice.SuggestReply(cmd.Context(), domain.ReplyRequest{
			Message: strings.Join(args, " "),
			Intent:  intent,
			Tone:    tone,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var askOutCmd = &cobra.Command{
	Use:   "ask-out",
	Short: "Suggest a message to ask the match out",
	Long: `Suggest a message to ask the match out. The chat is read from --file
or from stdin, one turn per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		tone, _ := cmd.Flags().GetString("tone")

		var (
			raw []byte
			err error
		)
		if file != "" {
			raw, err = os.ReadFile(file)
		} else {
			raw, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("reading chat: %w", err)
		}

		c, logger, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer c.Close()

		out, err := c.Advice.AskOut(cmd.Context(), domain.AskOutRequest{Convo: string(raw), Tone: tone})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the copilot tools over MCP (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, logger, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer c.Close()

		s := mcptools.NewServer(mcptools.Deps{Profiles: c.Profiles, Advice: c.Advice, Version: version})
		return server.ServeStdio(s)
	},
}

func init() {
	analyzeProfileCmd.Flags().String("name", "", "your name")
	analyzeProfileCmd.Flags().String("age", "", "your age")
	analyzeProfileCmd.Flags().String("gender", "", "your gender")
	analyzeProfileCmd.Flags().String("goals", "", "what you are looking for")
	analyzeProfileCmd.Flags().String("confidence", "", "self-rated confidence")

	suggestReplyCmd.Flags().String("intent", "", "what you want from the reply")
	suggestReplyCmd.Flags().String("tone", "", "tone of the replies")

	askOutCmd.Flags().String("file", "", "chat transcript file (default: stdin)")
	askOutCmd.Flags().String("tone", "", "tone of the message")

	rootCmd.AddCommand(analyzeProfileCmd, analyzeBioCmd, suggestReplyCmd, askOutCmd, mcpCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
