package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/agalitsyn/taskflow/internal/analytics"
	"github.com/agalitsyn/taskflow/internal/model"
	"github.com/agalitsyn/taskflow/internal/taskstore"
	"github.com/agalitsyn/taskflow/version"
)

const maxListButtons = 10

// TaskStore is the part of taskstore.Store the front-ends use.
type TaskStore interface {
	List() []model.Task
	Create(ctx context.Context, draft model.TaskDraft) (model.Task, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, bool, error)
	Complete(ctx context.Context, id string) (model.Task, bool, error)
	Uncomplete(ctx context.Context, id string) (model.Task, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) (int, error)
}

var _ TaskStore = (*taskstore.Store)(nil)

type BotConfig struct {
	UpdateTimeout int
}

type Bot struct {
	api *tgbotapi.BotAPI

	cfg   BotConfig
	store TaskStore
	log   lgr.L
	now   func() time.Time
}

type reply struct {
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
}

func NewBot(
	cfg BotConfig,
	token string,
	logger tgbotapi.BotLogger,
	store TaskStore,
	log lgr.L,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if err := tgbotapi.SetLogger(logger); err != nil {
		return nil, err
	}
	return &Bot{
		api:   bot,
		cfg:   cfg,
		store: store,
		log:   log,
		now:   time.Now,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case update := <-updates:
			if update.CallbackQuery != nil {
				if err := b.handleCallbackQuery(ctx, update); err != nil {
					b.log.Logf("[ERROR] handling callback query: %v", err)
				}
				continue
			}

			if update.Message == nil { // ignore any non-Message updates
				continue
			}

			command, args := update.Message.Command(), update.Message.CommandArguments()
			if !update.Message.IsCommand() {
				var ok bool
				command, args, ok = parseCommand(update.Message.Text, b.api.Self.UserName)
				if !ok {
					continue
				}
			}

			r := b.handleCommand(ctx, command, args)
			if err := b.send(update.Message.Chat.ID, r); err != nil {
				b.log.Logf("[ERROR] sending reply: %v", err)
			}

		case <-ctx.Done():
			b.log.Logf("[DEBUG] stopped: %v", ctx.Err())
			b.api.StopReceivingUpdates()
			return
		}
	}
}

func (b *Bot) SetDebug(debug bool) {
	b.api.Debug = debug
}

func (b *Bot) GetSelf() tgbotapi.User {
	return b.api.Self
}

func (b *Bot) send(chatID int64, r reply) error {
	msg := tgbotapi.NewMessage(chatID, r.text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if r.keyboard != nil {
		msg.ReplyMarkup = *r.keyboard
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleCommand(ctx context.Context, command, args string) reply {
	switch command {
	case "start", "help":
		return b.helpCommand()
	case "status":
		return reply{text: fmt.Sprintf("🤖 *TaskFlow*\n\n✅ Running\n📊 Version: %s", escape(version.String()))}
	case "add":
		return b.addCommand(ctx, args)
	case "list":
		return b.listCommand(args)
	case "search":
		return b.listView(model.Filter{Search: strings.TrimSpace(args)})
	case "done":
		return b.refCommand(ctx, args, "Task completed! 🎉", b.store.Complete)
	case "undo":
		return b.refCommand(ctx, args, "Task marked as active", b.store.Uncomplete)
	case "rm":
		return b.deleteCommand(ctx, args)
	case "stats":
		return b.statsCommand(args)
	default:
		return reply{text: "Unknown command. Try /help."}
	}
}

func (b *Bot) helpCommand() reply {
	text := strings.Join([]string{
		"🤖 *TaskFlow*",
		"",
		"/add Buy milk !high due:tomorrow -- notes",
		"/list \\[all|active|completed] \\[high|medium|low]",
		"/search text",
		"/done N, /undo N, /rm N",
		"/stats \\[week|month|all]",
	}, "\n")
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Active", "cmd_list"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", "cmd_stats"),
		),
	)
	return reply{text: text, keyboard: &keyboard}
}

func (b *Bot) addCommand(ctx context.Context, args string) reply {
	draft, err := ParseQuickAdd(args, b.now())
	if err != nil {
		return reply{text: "⚠️ " + capitalize(err.Error())}
	}
	task, err := b.store.Create(ctx, draft)
	if err != nil {
		b.log.Logf("[ERROR] could not create task: %v", err)
		return reply{text: "❌ Failed to create task"}
	}
	return reply{text: fmt.Sprintf("✅ Task created successfully!\n%s", b.taskLine(0, task))}
}

func (b *Bot) listCommand(args string) reply {
	var f model.Filter
	for _, word := range strings.Fields(args) {
		if status, err := model.ParseStatusFilter(word); err == nil {
			f.Status = status
			continue
		}
		if priority, err := model.ParsePriorityFilter(word); err == nil {
			f.Priority = priority
			continue
		}
		return reply{text: fmt.Sprintf("⚠️ Unknown filter %q", word)}
	}
	return b.listView(f)
}

// listView numbers tasks by their position in the full list so that the
// numbers can be passed to /done, /undo and /rm.
func (b *Bot) listView(f model.Filter) reply {
	ts := b.now()
	tasks := b.store.List()
	all := model.CountTasks(tasks, ts)

	var lines []string
	var buttons []tgbotapi.InlineKeyboardButton
	var matched []model.Task
	for i, t := range tasks {
		if !f.Match(t) {
			continue
		}
		matched = append(matched, t)
		lines = append(lines, b.taskLine(i+1, t))
		if len(buttons) < maxListButtons {
			if t.Completed {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("↩️ %d", i+1), "undo:"+t.ID))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✔️ %d", i+1), "done:"+t.ID))
			}
		}
	}

	shown := model.CountTasks(matched, ts)
	header := fmt.Sprintf("📋 %d total · %d active · %d completed · %d overdue",
		all.Total, all.Active, all.Completed, all.Overdue)
	if shown.Total != all.Total {
		header += fmt.Sprintf("\nShowing %d of %d", shown.Total, all.Total)
	}
	if len(lines) == 0 {
		return reply{text: header + "\n\nNo tasks found."}
	}

	r := reply{text: header + "\n\n" + strings.Join(lines, "\n")}
	if len(buttons) > 0 {
		var rows [][]tgbotapi.InlineKeyboardButton
		for i := 0; i < len(buttons); i += 5 {
			rows = append(rows, buttons[i:min(i+5, len(buttons))])
		}
		keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
		r.keyboard = &keyboard
	}
	return r
}

func (b *Bot) refCommand(
	ctx context.Context,
	args, success string,
	op func(ctx context.Context, id string) (model.Task, bool, error),
) reply {
	task, err := ResolveTask(b.store.List(), args)
	if err != nil {
		return reply{text: "⚠️ " + capitalize(err.Error())}
	}
	id := task.ID
	task, ok, err := op(ctx, id)
	switch {
	case err != nil:
		b.log.Logf("[ERROR] could not update task id=%s: %v", id, err)
		return reply{text: "❌ Failed to update task"}
	case !ok:
		return reply{text: "⚠️ Task not found"}
	}
	return reply{text: fmt.Sprintf("%s\n%s", success, b.taskLine(0, task))}
}

func (b *Bot) deleteCommand(ctx context.Context, args string) reply {
	task, err := ResolveTask(b.store.List(), args)
	if err != nil {
		return reply{text: "⚠️ " + capitalize(err.Error())}
	}
	ok, err := b.store.Delete(ctx, task.ID)
	switch {
	case err != nil:
		b.log.Logf("[ERROR] could not delete task id=%s: %v", task.ID, err)
		return reply{text: "❌ Failed to delete task"}
	case !ok:
		return reply{text: "⚠️ Task not found"}
	}
	return reply{text: fmt.Sprintf("🗑 Task deleted: %s", escape(task.Title))}
}

func (b *Bot) statsCommand(args string) reply {
	r, err := analytics.ParseRange(args)
	if err != nil {
		return reply{text: "⚠️ " + capitalize(err.Error())}
	}
	rep := analytics.Build(b.store.List(), r, b.now())

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *Analytics* (%s)\n\n", r)
	fmt.Fprintf(&sb, "Productivity score: %d%%\n", rep.ProductivityScore)
	fmt.Fprintf(&sb, "Avg tasks/day: %d\n", rep.AvgTasksPerDay)
	fmt.Fprintf(&sb, "Total tasks: %d\n\n", rep.Total)
	fmt.Fprintf(&sb, "Completed %d · Pending %d\n", rep.Completion.Completed, rep.Completion.Pending)
	fmt.Fprintf(&sb, "🔴 %d · 🟡 %d · 🔵 %d\n\n", rep.Priorities.High, rep.Priorities.Medium, rep.Priorities.Low)
	for _, d := range rep.Daily {
		fmt.Fprintf(&sb, "`%s` %s\n", d.Day.Format("Jan 02"), strings.Repeat("▇", d.Created))
	}
	return reply{text: sb.String()}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) error {
	callback := tgbotapi.NewCallback(update.CallbackQuery.ID, "")
	if _, err := b.api.Request(callback); err != nil {
		b.log.Logf("[WARN] answering callback query: %v", err)
	}
	if update.CallbackQuery.Message == nil {
		return errors.New("callback query without message")
	}
	return b.send(update.CallbackQuery.Message.Chat.ID, b.handleCallbackData(ctx, update.CallbackQuery.Data))
}

func (b *Bot) handleCallbackData(ctx context.Context, data string) reply {
	switch {
	case data == "cmd_list":
		return b.listView(model.Filter{Status: model.StatusActive})
	case data == "cmd_stats":
		return b.statsCommand("")
	case strings.HasPrefix(data, "done:"):
		return b.handleCommand(ctx, "done", strings.TrimPrefix(data, "done:"))
	case strings.HasPrefix(data, "undo:"):
		return b.handleCommand(ctx, "undo", strings.TrimPrefix(data, "undo:"))
	default:
		return reply{text: "Unknown action."}
	}
}

func (b *Bot) taskLine(pos int, t model.Task) string {
	ts := b.now()
	var sb strings.Builder
	if pos > 0 {
		fmt.Fprintf(&sb, "%d. ", pos)
	}
	if t.Completed {
		sb.WriteString("☑️ ")
	} else {
		sb.WriteString(priorityMark(t.Priority) + " ")
	}
	sb.WriteString(escape(t.Title))
	if t.HasDueDate() && !t.Completed {
		due := model.FormatDue(t.DueDate, ts)
		if model.DueStatusAt(t.DueDate, ts) == model.DueOverdue {
			fmt.Fprintf(&sb, " · ⏰ _%s_", due)
		} else {
			fmt.Fprintf(&sb, " · _%s_", due)
		}
	}
	return sb.String()
}

func priorityMark(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityLow:
		return "🔵"
	default:
		return "🟡"
	}
}

// parseCommand handles "@bot /command args" mentions in group chats.
func parseCommand(text string, botUsername string) (command, args string, ok bool) {
	prefix := "@" + botUsername + " /"
	if !strings.HasPrefix(text, prefix) {
		return "", "", false
	}
	command, args, _ = strings.Cut(strings.TrimPrefix(text, prefix), " ")
	return command, strings.TrimSpace(args), command != ""
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
