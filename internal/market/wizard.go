package market

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/marketbot/core/logger"
	"github.com/m3rciful/marketbot/core/metrics"
)

// Payloads of the attach and confirm callbacks.
const (
	AttachPhotos   = "photos"
	AttachSkip     = "skip"
	ConfirmPublish = "publish"
	ConfirmCancel  = "cancel"
)

const (
	staleFormText = "This form is no longer active. Start again from the menu."
	textOnlyText  = "Please answer with text."
)

func (s *Service) startWizard(sess *Session, action Action) []Reply {
	sess.ResetWizard()
	sess.State = StateSelectServer
	sess.Draft.Action = action
	return s.serverPrompt(sess)
}

func (s *Service) serverPrompt(sess *Session) []Reply {
	rows := make([][]Button, 0, len(Servers)+1)
	for _, srv := range Servers {
		rows = append(rows, []Button{{Text: srv, Unique: CallbackServer, Data: srv}})
	}
	rows = append(rows, backButton())
	msg := fmt.Sprintf("%s. Choose a server:", sess.Draft.Action.Label())
	return []Reply{{Text: msg, Buttons: rows, Edit: true}}
}

func (s *Service) categoryPrompt(sess *Session) []Reply {
	rows := make([][]Button, 0, len(Categories)+1)
	for _, cat := range Categories {
		rows = append(rows, []Button{{Text: cat, Unique: CallbackCategory, Data: cat}})
	}
	rows = append(rows, backButton())
	msg := fmt.Sprintf("Server: %s\nChoose a category:", sess.Draft.Server)
	return []Reply{{Text: msg, Buttons: rows, Edit: true}}
}

func (s *Service) typePrompt(sess *Session) []Reply {
	rows := make([][]Button, 0, len(Types)+1)
	for _, t := range Types {
		rows = append(rows, []Button{{Text: t.Label(), Unique: CallbackType, Data: string(t)}})
	}
	rows = append(rows, backButton())
	msg := fmt.Sprintf("Category: %s\nChoose the listing type:", sess.Draft.Category)
	return []Reply{{Text: msg, Buttons: rows, Edit: true}}
}

func questionPrompt(sess *Session) []Reply {
	q, _ := sess.Draft.NextQuestion()
	msg := "Enter: " + q
	if len(sess.Draft.Answers) == 0 {
		msg += "\n\nYou can attach photos of the item after the last question. /cancel stops the form."
	}
	return []Reply{text(msg)}
}

func attachPrompt() []Reply {
	return []Reply{text(
		fmt.Sprintf("All fields are filled. Attach up to %d photos or skip.", MaxPhotos),
		[]Button{{Text: "📷 Attach photos", Unique: CallbackAttach, Data: AttachPhotos}},
		[]Button{{Text: "Skip", Unique: CallbackAttach, Data: AttachSkip}},
	)}
}

func (s *Service) confirmPrompt(sess *Session, ev Event) []Reply {
	preview := sess.Draft.Preview(ev.UserID, ev.Handle)
	out := []Reply{text("Listing preview:\n\n"+Format(preview), []Button{
		{Text: "✅ Publish", Unique: CallbackConfirm, Data: ConfirmPublish},
		{Text: "❌ Cancel", Unique: CallbackConfirm, Data: ConfirmCancel},
	})}
	if len(sess.Draft.Photos) > 0 {
		out = append(out, Reply{Photos: append([]string(nil), sess.Draft.Photos...)})
	}
	return out
}

// reprompt repeats the prompt of the current step.
func (s *Service) reprompt(sess *Session, ev Event) []Reply {
	switch sess.State {
	case StateSelectServer:
		return s.serverPrompt(sess)
	case StateSelectCategory:
		return s.categoryPrompt(sess)
	case StateSelectType:
		return s.typePrompt(sess)
	case StateFillFields:
		return questionPrompt(sess)
	case StateAttachPhotos:
		return attachPrompt()
	case StateConfirm:
		return s.confirmPrompt(sess, ev)
	}
	return s.withMenu(unknownText)
}

// outOfStep answers a wizard button pressed in the wrong step.
func (s *Service) outOfStep(sess *Session, ev Event) []Reply {
	if sess.State == StateIdle {
		return s.withMenu(staleFormText)
	}
	return s.reprompt(sess, ev)
}

func (s *Service) handleServer(_ context.Context, sess *Session, ev Event) ([]Reply, error) {
	if sess.State != StateSelectServer {
		return s.outOfStep(sess, ev), nil
	}
	if !IsServer(ev.Data) {
		return s.serverPrompt(sess), nil
	}
	sess.Draft.Server = ev.Data
	sess.State = StateSelectCategory
	return s.categoryPrompt(sess), nil
}

func (s *Service) handleCategory(_ context.Context, sess *Session, ev Event) ([]Reply, error) {
	if sess.State != StateSelectCategory {
		return s.outOfStep(sess, ev), nil
	}
	if !IsCategory(ev.Data) {
		return s.categoryPrompt(sess), nil
	}
	sess.Draft.Category = ev.Data
	sess.State = StateSelectType
	return s.typePrompt(sess), nil
}

func (s *Service) handleType(_ context.Context, sess *Session, ev Event) ([]Reply, error) {
	if sess.State != StateSelectType {
		return s.outOfStep(sess, ev), nil
	}
	t, ok := ParseType(ev.Data)
	if !ok {
		return s.typePrompt(sess), nil
	}
	sess.Draft.Type = t
	sess.Draft.Questions = Template(sess.Draft.Category, sess.Draft.Action)
	sess.Draft.Answers = nil
	sess.State = StateFillFields
	return questionPrompt(sess), nil
}

func (s *Service) handleText(_ context.Context, sess *Session, ev Event) ([]Reply, error) {
	switch sess.State {
	case StateIdle:
		return s.withMenu(unknownText), nil
	case StateFillFields:
	default:
		return s.reprompt(sess, ev), nil
	}
	answer := strings.TrimSpace(ev.Data)
	if answer == "" {
		return questionPrompt(sess), nil
	}
	sess.Draft.Answers = append(sess.Draft.Answers, answer)
	if _, more := sess.Draft.NextQuestion(); more {
		return questionPrompt(sess), nil
	}
	sess.State = StateAttachPhotos
	return attachPrompt(), nil
}

func (s *Service) handlePhoto(_ context.Context, sess *Session, ev Event) ([]Reply, error) {
	switch sess.State {
	case StateIdle:
		return s.withMenu(unknownText), nil
	case StateFillFields:
		q, _ := sess.Draft.NextQuestion()
		return []Reply{text(textOnlyText + "\nEnter: " + q)}, nil
	case StateAttachPhotos:
	default:
		return s.reprompt(sess, ev), nil
	}
	if ev.Data == "" {
		return attachPrompt(), nil
	}
	sess.Draft.Photos = append(sess.Draft.Photos, ev.Data)
	n := len(sess.Draft.Photos)
	if n >= MaxPhotos {
		sess.State = StateConfirm
		out := []Reply{text(fmt.Sprintf("%d photos added (maximum).", MaxPhotos))}
		return append(out, s.confirmPrompt(sess, ev)...), nil
	}
	msg := fmt.Sprintf("Photo accepted (%d/%d). Send more or /done to continue.", n, MaxPhotos)
	return []Reply{text(msg)}, nil
}

func (s *Service) handleDone(_ context.Context, sess *Session, ev Event) ([]Reply, error) {
	switch sess.State {
	case StateIdle:
		return s.withMenu(unknownText), nil
	case StateAttachPhotos:
		sess.State = StateConfirm
		return s.confirmPrompt(sess, ev), nil
	}
	return s.reprompt(sess, ev), nil
}

func (s *Service) handleAttach(ctx context.Context, sess *Session, ev Event) ([]Reply, error) {
	if sess.State != StateAttachPhotos {
		return s.outOfStep(sess, ev), nil
	}
	if ev.Data == AttachSkip {
		return s.handleDone(ctx, sess, ev)
	}
	msg := fmt.Sprintf("Send photos (up to %d). When finished, send /done or press Skip.", MaxPhotos)
	return []Reply{text(msg, []Button{{Text: "Skip", Unique: CallbackAttach, Data: AttachSkip}})}, nil
}

func (s *Service) handleConfirm(ctx context.Context, sess *Session, ev Event) ([]Reply, error) {
	if sess.State != StateConfirm {
		return s.outOfStep(sess, ev), nil
	}
	switch ev.Data {
	case ConfirmPublish:
		return s.publish(ctx, sess, ev)
	case ConfirmCancel:
		sess.ResetWizard()
		return s.withMenu("Publishing cancelled."), nil
	}
	return s.confirmPrompt(sess, ev), nil
}

func (s *Service) handleCancel(ctx context.Context, sess *Session, _ Event) ([]Reply, error) {
	if sess.State != StateIdle {
		logger.LogEvent(ctx, logger.Market, slog.LevelDebug, "wizard.cancelled", slog.String("state", sess.State.String()))
	}
	sess.ResetWizard()
	return s.withMenu("Operation cancelled."), nil
}

// publish stores the draft. The draft survives a store failure so the
// user can press Publish again.
func (s *Service) publish(ctx context.Context, sess *Session, ev Event) ([]Reply, error) {
	if !s.isMember(ctx, ev.UserID) {
		sess.ResetWizard()
		msg := fmt.Sprintf("To publish listings subscribe to %s, then press /start and try again.", s.cfg.ChannelUsername)
		return s.withMenu(msg), nil
	}

	u, err := s.store.GetUser(ctx, ev.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	handle, vip := ev.Handle, false
	if u != nil {
		vip = u.VIP
		if u.Handle != "" {
			handle = u.Handle
		}
	}

	d := sess.Draft
	id, err := s.store.AddListing(ctx, NewListing{
		Owner:    ev.UserID,
		Handle:   handle,
		Server:   d.Server,
		Category: d.Category,
		Type:     d.Type,
		Action:   d.Action,
		Fields:   d.Fields(),
		Photos:   d.Photos,
		VIP:      vip,
	})
	if err != nil {
		return nil, fmt.Errorf("add listing: %w", err)
	}
	sess.ResetWizard()

	metrics.ListingsPublished.WithLabelValues(string(d.Action)).Inc()
	logger.LogEvent(ctx, logger.Market, slog.LevelInfo, "listing.published",
		slog.Int64("listing_id", id),
		slog.String("server", d.Server),
		slog.String("category", d.Category),
		slog.String("action", string(d.Action)),
		slog.Int("photos", len(d.Photos)),
		slog.Bool("vip", vip),
	)
	return s.withMenu(fmt.Sprintf("Your listing is published. Listing number #%d", id)), nil
}
