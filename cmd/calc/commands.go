package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
)

func newEvalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression and print the display value",
		Example: `  calc eval "(2+3)*4"
  calc eval 1 / 3 --width 10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := strings.Join(args, " ")

			value, err := engine.Evaluate(expr)
			if err != nil {
				opts.logger.Debug("evaluation failed",
					zap.String("expression", expr),
					zap.String("kind", engine.KindOf(err).Slug()),
				)
				return err
			}

			opts.logger.Debug("evaluated", zap.String("expression", expr), zap.Float64("result", value))
			fmt.Fprintln(cmd.OutOrStdout(), engine.FormatDisplayValue(value, opts.width))
			return nil
		},
	}
}

func newKeysCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <key>...",
		Short: "Press keys on a fresh calculator and print the panel",
		Long: `Keys are digits, ".", "+", "-", "*", "/", "(", ")" and the function
keys "C", "DEL", "+/-", "%" and "=".`,
		Example: `  calc keys 9 "*" 9 =`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := opts.machine()
			if err := press(m, args, opts.logger); err != nil {
				return err
			}
			render(cmd.OutOrStdout(), m.State())
			return nil
		},
	}
}

func newReplCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read whitespace separated keys from stdin, one batch per line",
		Long:  `Each line is pressed on the same calculator and the panel printed after it. Type "quit" to leave.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
}

func runRepl(in io.Reader, out io.Writer, opts *options) error {
	m := opts.machine()
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if err := press(m, strings.Fields(line), opts.logger); err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		render(out, m.State())
	}

	return scanner.Err()
}

// press checks every key before pressing any of them.
func press(m *engine.Machine, keys []string, logger *zap.Logger) error {
	for _, key := range keys {
		if _, err := engine.ParseKey(key); err != nil {
			return err
		}
	}

	for _, key := range keys {
		if err := m.Press(key); err != nil {
			return err
		}
		s := m.State()
		logger.Debug("key pressed",
			zap.String("key", key),
			zap.String("expression", s.InternalExpression),
			zap.String("display", s.DisplayValue),
		)
	}
	return nil
}

// render prints the preview line, when there is one, then the display or
// the error message.
func render(w io.Writer, s engine.State) {
	if s.ExpressionPreview != "" {
		fmt.Fprintln(w, s.ExpressionPreview)
	}
	if s.Error != "" {
		fmt.Fprintln(w, s.Error)
		return
	}
	fmt.Fprintln(w, s.DisplayValue)
}
