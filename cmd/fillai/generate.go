package main

import (
	"fmt"
	"io"
	"strings"

	"fillai-backend/application/commands"
	"fillai-backend/application/queries"
	"fillai-backend/domain/core/entities"
	"fillai-backend/infrastructure/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	settings entities.GenerationSettings
	offline  bool
}

func generateCmd(flags *globalFlags) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a course and print its outline",
		Long: `Asks the configured course generator for a course and prints its modules
and lessons. With --offline the local placeholder generator is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags, opts)
		},
	}
	cmd.Flags().StringVar(&opts.settings.Topic, "topic", "", "course topic")
	cmd.Flags().StringVar(&opts.settings.Level, "level", "", "Beginner, Intermediate, Advanced or Expert")
	cmd.Flags().StringVar(&opts.settings.Duration, "duration", "", "'1 week', '2 weeks', '4 weeks' or '8 weeks'")
	cmd.Flags().StringVar(&opts.settings.Category, "category", "", "category to file the course under")
	cmd.Flags().StringVar(&opts.settings.Language, "language", "", "course language code")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "use the local placeholder generator")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func runGenerate(cmd *cobra.Command, flags *globalFlags, opts *generateOptions) error {
	ctx := cmd.Context()

	c, cleanup, err := flags.offlineContainer(ctx, func(cfg *config.Config) {
		cfg.SeedDemo = false
		if opts.offline {
			cfg.Generator.BaseURL = ""
		}
	})
	if err != nil {
		return err
	}
	defer cleanup()

	id := uuid.NewString()
	if err := c.CommandBus.Send(ctx, commands.GenerateCourseCommand{CourseID: id, Settings: opts.settings}); err != nil {
		return err
	}
	raw, err := c.QueryBus.Ask(ctx, queries.GetCourseQuery{CourseID: id})
	if err != nil {
		return err
	}
	printOutline(cmd.OutOrStdout(), raw.(*entities.Course))
	return nil
}

func printOutline(w io.Writer, course *entities.Course) {
	banner(w, "generated course")

	fmt.Fprintf(w, "  %s\n", brand.Sprint(course.Title))
	if course.Description != "" {
		fmt.Fprintf(w, "  %s\n", subtle.Sprint(course.Description))
	}
	meta := []string{course.Level, course.Duration, course.CategoryLabel}
	fmt.Fprintf(w, "  %s\n\n", strings.Join(nonEmpty(meta), " · "))

	for m, module := range course.Modules {
		fmt.Fprintf(w, "  %d. %s\n", m+1, module.Title)
		for l, lesson := range module.Lessons {
			fmt.Fprintf(w, "     %s %s\n", subtle.Sprintf("%d.%d", m+1, l+1), lesson.Title)
		}
	}
	fmt.Fprintf(w, "\n  %s %d modules, %d lessons\n", statusIcon(true), len(course.Modules), course.TotalLessons())
}

func nonEmpty(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
