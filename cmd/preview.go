package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/quizflow"
	"github.com/abhisek/quizgen/internal/scoring"
)

const previewUser = "preview"

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Take a generated quiz on stdin (no database)",
	Long: `Generate a quiz for a topic and answer it line by line on stdin.

This is a stateless developer tool: quota and session live in memory and no
LLM events are recorded. Useful for judging question quality and prompts.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("topic", "", "Quiz topic (prompted for when empty)")
	previewCmd.Flags().Int("count", 0, "Number of questions (defaults to quiz.question_count)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("count"); n > 0 {
		cfg.Quiz.QuestionCount = n
	}

	rt, err := buildRuntime(cmd, cfg, config.BackendMemory)
	if err != nil {
		return err
	}
	defer rt.Close()

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	topic, _ := cmd.Flags().GetString("topic")
	if strings.TrimSpace(topic) == "" {
		fmt.Fprint(out, "Topic: ")
		if !in.Scan() {
			return errors.New("no topic given")
		}
		topic = in.Text()
	}

	fmt.Fprintf(out, "Generating %d questions about %s...\n\n", cfg.Quiz.QuestionCount, strings.TrimSpace(topic))
	return playPreview(cmd, rt.svc, in, out, topic)
}

// playPreview runs one quiz through svc, reading answers from in.
func playPreview(cmd *cobra.Command, svc *quizflow.Service, in *bufio.Scanner, out io.Writer, topic string) error {
	ctx := cmd.Context()

	session, err := svc.Start(ctx, previewUser, topic)
	if err != nil {
		fmt.Fprintln(out, quizflow.Message(err))
		return err
	}

	q, _ := session.CurrentQuestion()
	for {
		fmt.Fprintf(out, "── Question %d/%d ──\n", session.CurrentIndex()+1, session.Len())
		fmt.Fprintln(out, q.Text)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %c) %s\n", 'A'+i, opt)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !in.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}

		res, err := svc.Answer(ctx, previewUser, choiceToken(in.Text(), len(q.Options)))
		if errors.Is(err, quiz.ErrMissingAnswer) {
			fmt.Fprintln(out, quizflow.Message(err))
			fmt.Fprintln(out)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out)

		if res.Complete {
			break
		}
		session, q = res.Session, res.Question
	}

	result, err := svc.Result(ctx, previewUser)
	if err != nil {
		fmt.Fprintln(out, quizflow.Message(err))
		return nil
	}
	printResult(out, result)
	return nil
}

// invalidChoice is recorded for numbers outside 1..n, so "0" is not read
// as option A.
const invalidChoice = "-1"

// choiceToken turns "2", "b" or "B" into a zero-based option index. Numbers
// outside 1..n become invalidChoice; other input is passed through for the
// session to record as-is.
func choiceToken(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && int(c-'a') < n {
			return strconv.Itoa(int(c - 'a'))
		}
	}
	if v, err := strconv.Atoi(s); err == nil {
		if v < 1 || v > n {
			return invalidChoice
		}
		return strconv.Itoa(v - 1)
	}
	return s
}

func printResult(out io.Writer, res scoring.Result) {
	for _, r := range res.Review {
		mark := "\033[32m✓\033[0m"
		if !r.IsCorrect {
			mark = "\033[31m✗\033[0m"
		}
		fmt.Fprintf(out, "%s %d. %s\n", mark, r.Number, r.Question)
		fmt.Fprintf(out, "   Your answer: %s\n", r.UserAnswer)
		if !r.IsCorrect {
			fmt.Fprintf(out, "   Correct:     %s\n", r.CorrectAnswer)
		}
		fmt.Fprintf(out, "   %s\n\n", r.Explanation)
	}
	fmt.Fprintf(out, "── Score: %d%% (%d/%d correct) · %s ──\n", res.Score, res.CorrectCount, res.Total, res.Grade())
}

