package audit

import (
	"context"

	"sustainwear.org/internal/auth"
)

// Recorder persists admin actions. Persistence is best-effort: a failed
// append is logged and swallowed so it never fails the request that
// triggered it.
type Recorder struct {
	store auth.AuditStore
}

func NewRecorder(store auth.AuditStore) *Recorder {
	return &Recorder{store: store}
}

// Record appends the entry and mirrors it to the operational log.
func (r *Recorder) Record(ctx context.Context, entry auth.AuditEntry) {
	fields := map[string]any{
		"admin_id": entry.AdminID,
		"action":   entry.Action,
	}
	if entry.TargetUser != 0 {
		fields["target_user_id"] = entry.TargetUser
	}
	if entry.TargetOrg != 0 {
		fields["target_org_id"] = entry.TargetOrg
	}
	_ = LogEvent(ctx, entry.Action, fields)

	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Append(ctx, &entry); err != nil {
		_ = LogEvent(ctx, "audit_append_failed", map[string]any{
			"action": entry.Action,
			"error":  err.Error(),
		})
	}
}
