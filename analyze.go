package main

import (
	"FeeloraGo/config"
	"FeeloraGo/models"
	"FeeloraGo/services"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var (
		inputType string
		memory    bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Run one mood check-in from the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				config.Logger = logger.Sugar()
				defer config.Logger.Sync()
			}

			t, ok := models.ParseInputType(inputType)
			if !ok || t == models.InputCamera {
				return fmt.Errorf("--type must be text or voice, got %q", inputType)
			}

			conf, err := config.LoadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("无法加载配置: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			gen, err := services.NewGenerator(ctx, conf)
			if err != nil {
				return err
			}

			var store services.MoodStore = services.NewMemoryMoodStore()
			if !memory {
				db, err := config.OpenDB(conf)
				if err != nil {
					return fmt.Errorf("无法初始化数据库: %w", err)
				}
				if err := config.MigrateDB(db); err != nil {
					return err
				}
				store = services.NewGormMoodStore(db, nil, conf.MoodCacheTTL)
			}

			return runAnalyze(ctx, cmd.OutOrStdout(), conf, gen, store, t, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVar(&inputType, "type", string(models.InputText), "input type: text or voice")
	cmd.Flags().BoolVar(&memory, "memory", false, "keep the entry in memory instead of the database")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs")
	return cmd
}

// terminalSpeaker 在终端里"朗读"
func terminalSpeaker(out io.Writer) services.Speaker {
	return services.SpeakerFunc(func(_ context.Context, u services.Utterance) error {
		_, err := fmt.Fprintf(out, "Feelora says: %s\n", u.Text)
		return err
	})
}

func runAnalyze(ctx context.Context, out io.Writer, conf config.Config, gen services.Generator, store services.MoodStore, inputType models.InputType, text string) error {
	app := services.NewApp(conf, gen, store, nil, terminalSpeaker(out))
	defer app.Close()

	view, err := app.Vibes.Session("cli").Submit(ctx, services.CaptureInput{Type: inputType, Transcript: text})
	if err != nil {
		return fmt.Errorf("%s", services.UserMessage(err))
	}

	result := view.Result
	fmt.Fprintf(out, "emotion:   %s (%s)\n", result.Emotion, result.MoodColor)
	fmt.Fprintf(out, "intensity: %d/10\n", result.Intensity)
	if len(result.Tags) > 0 {
		fmt.Fprintf(out, "tags:      %s\n", strings.Join(result.Tags, ", "))
	}
	fmt.Fprintf(out, "saved:     %s\n", view.Entry.ID)
	return nil
}
