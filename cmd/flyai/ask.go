package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"flyai/internal/intent"
)

func newAskCmd(configPath *string) *cobra.Command {
	var smart bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer one question through the cache and the model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			question := strings.Join(args, " ")
			answers := a.answerService()

			if !smart {
				out, err := answers.Answer(ctx, question)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}

			res, err := a.classifier(answers).Classify(ctx, question)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", res.Kind(), describe(res))
			return nil
		},
	}
	cmd.Flags().BoolVar(&smart, "smart", false, "classify the question like /smart_ask")
	return cmd
}

func describe(res intent.Result) string {
	switch v := res.(type) {
	case intent.FlightSearch:
		date := "any date"
		if v.Date != nil {
			date = *v.Date
		}
		return fmt.Sprintf("%s (%s)", v.Message(), date)
	case intent.Chat:
		return v.Message
	}
	return ""
}
