package jobs

import (
	"context"
	"strings"
	"time"

	"user-api/internal/logging"
	"user-api/internal/model"
	"user-api/internal/notify"
	"user-api/internal/queue"
)

const TypeUserCreated = "user.created"

// SubmittedFields 建立時送出的原始欄位，Password 只在設定允許時帶入
type SubmittedFields struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

type UserCreatedPayload struct {
	User      model.User       `json:"user"`
	Submitted *SubmittedFields `json:"submitted"`
}

// FormatUserCreated 產生通知訊息
func FormatUserCreated(p UserCreatedPayload) string {
	var b strings.Builder
	b.WriteString("New user registered\n")
	b.WriteString("Name: " + p.User.Name + "\n")
	b.WriteString("Email: " + p.User.Email + "\n")
	if p.Submitted != nil && p.Submitted.Password != "" {
		b.WriteString("Password: " + p.Submitted.Password + "\n")
	}
	b.WriteString("Created at: " + p.User.CreatedAt.Format(time.RFC3339))
	return b.String()
}

// UserCreatedHandler 傳送新使用者通知；失敗只記錄，不重試
func UserCreatedHandler(sender notify.Sender, logger logging.Logger) queue.Handler {
	return func(ctx context.Context, job queue.Job) error {
		var p UserCreatedPayload
		if err := job.Decode(&p); err != nil {
			logger.Error(ctx, "user.created payload invalid", "error", err)
			return nil
		}

		if err := sender.Send(ctx, FormatUserCreated(p)); err != nil {
			logger.Error(ctx, "user.created notification failed", "user_id", p.User.ID, "error", err)
			return nil
		}
		logger.Info(ctx, "user.created notification sent", "user_id", p.User.ID)
		return nil
	}
}

// Register 註冊本套件所有 job handler
func Register(reg *queue.Registry, sender notify.Sender, logger logging.Logger) {
	reg.Register(TypeUserCreated, UserCreatedHandler(sender, logger))
}
