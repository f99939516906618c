package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/client"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/config"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/logger"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/model"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/service"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Event Evaluation ===")

	// ─── Respondent Identity ───────────────────────────────────────────
	fmt.Print("Your name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: name is required")
		return
	}

	fmt.Print("Your email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: email is required")
		return
	}

	// ─── Access Token ──────────────────────────────────────────────────
	fmt.Print("Access token (leave empty to continue as guest, input hidden): ")
	byteToken, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading token")
		return
	}
	token := strings.TrimSpace(string(byteToken))

	if token == "" {
		bootstrap := client.New(cfg, "", log)
		token, err = bootstrap.GuestToken(ctx, name, email)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to obtain guest token")
		}
		fmt.Println("Signed in as guest evaluator.")
	}

	api := client.New(cfg, token, log)

	// ─── Pick an Evaluation ────────────────────────────────────────────
	forms, err := api.ListForms(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list evaluations")
	}
	if len(forms) == 0 {
		fmt.Println("No open evaluations right now.")
		return
	}

	fmt.Println("\nOpen evaluations:")
	for i, f := range forms {
		fmt.Printf("  %d) %s\n", i+1, f.Title)
	}
	fmt.Print("Pick one: ")
	pickStr, _ := reader.ReadString('\n')
	pick, err := strconv.Atoi(strings.TrimSpace(pickStr))
	if err != nil || pick < 1 || pick > len(forms) {
		fmt.Println("Error: invalid selection")
		return
	}
	formID := forms[pick-1].ID

	// ─── Run the Session ───────────────────────────────────────────────
	tracker := worker.NewCertificateTracker(api, cfg.CertLookupAttempts, cfg.CertLookupInterval, log)
	session := service.NewFormSession(api, model.Respondent{Name: name, Email: email}, log,
		service.WithCertificateFinder(tracker),
		service.WithAutoClose(cfg.SubmittedAutoClose),
	)
	defer session.Close()

	if err := session.Load(ctx, formID); err != nil {
		fmt.Println("Could not load the evaluation. Please try again later.")
		return
	}

	form := session.Form()
	fmt.Printf("\n%s\n%s\n\n", form.Title, form.Description)

	for _, q := range session.Questions() {
		askQuestion(reader, session, q)
	}

	submitWithRetry(ctx, reader, session)
	awaitCertificate(cfg, session)
}

// askQuestion prompts for one answer and records it. Empty input leaves
// the question unanswered; required questions are re-checked at submit.
func askQuestion(reader *bufio.Reader, session *service.FormSession, q model.NormalizedQuestion) {
	fmt.Println(renderPrompt(q))
	fmt.Print("> ")
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	answer := model.Answer{Text: line}
	if q.Kind == model.KindMultipleChoice {
		if idx, err := strconv.Atoi(line); err == nil && idx >= 1 && idx <= len(q.Options) {
			answer.Text = q.Options[idx-1]
		}
	}
	if q.Kind == model.KindFileUpload {
		info, err := os.Stat(line)
		if err != nil {
			fmt.Println("  (file not found, skipping)")
			return
		}
		answer = model.Answer{File: &model.FileRef{Name: filepath.Base(line), Size: info.Size()}}
	}

	if err := session.SetAnswer(q.ID, answer); err != nil {
		fmt.Printf("  (could not record answer: %v)\n", err)
	}
}

func renderPrompt(q model.NormalizedQuestion) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(q.Title)
	if q.Required {
		b.WriteString(" *")
	}

	switch q.Kind {
	case model.KindMultipleChoice:
		for i, opt := range q.Options {
			b.WriteString(fmt.Sprintf("\n  %d) %s", i+1, opt))
		}
	case model.KindNumericRating:
		b.WriteString(fmt.Sprintf("\n  (rate %d-%d)", q.RangeStart, q.RangeEnd))
	case model.KindLikertRange:
		b.WriteString(fmt.Sprintf("\n  (%d = %s ... %d = %s)", q.RangeStart, q.LowLabel, q.RangeEnd, q.HighLabel))
	case model.KindDateInput:
		b.WriteString("\n  (YYYY-MM-DD)")
	case model.KindTimeInput:
		b.WriteString("\n  (HH:MM)")
	case model.KindFileUpload:
		b.WriteString("\n  (path to a local file)")
	}
	return b.String()
}

// submitWithRetry keeps the participant in the answering loop until the
// submission goes through or they give up. Validation failures list
// every missing question at once; network failures offer a retry with
// the answers preserved.
func submitWithRetry(ctx context.Context, reader *bufio.Reader, session *service.FormSession) {
	for {
		err := session.Submit(ctx)
		if err == nil {
			fmt.Println("\nThank you! Your evaluation was submitted.")
			return
		}

		var ve *service.ValidationError
		if errors.As(err, &ve) {
			fmt.Println("\nPlease answer the following required questions:")
			for _, q := range ve.Missing {
				askQuestion(reader, session, q)
			}
			continue
		}

		fmt.Println("\nSubmission failed. Your answers are kept.")
		fmt.Print("Retry? [y/N]: ")
		again, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(again), "y") {
			return
		}
	}
}

// awaitCertificate waits for the background certificate lookup to settle
// and reports the outcome.
func awaitCertificate(cfg *config.Config, session *service.FormSession) {
	if !session.State().Submitted() {
		return
	}

	if session.State() == service.StateCertificatePending {
		fmt.Println("Generating your certificate...")
		deadline := time.Now().Add(time.Duration(cfg.CertLookupAttempts)*cfg.CertLookupInterval + 2*time.Second)
		for time.Now().Before(deadline) && session.State() == service.StateCertificatePending {
			time.Sleep(200 * time.Millisecond)
		}
	}

	if cert := session.Certificate(); cert != nil {
		fmt.Printf("Your certificate is ready: %s\n", cert.CertificateID)
		return
	}
	fmt.Println("Your certificate is not ready yet. Check the certificates page later.")
}
