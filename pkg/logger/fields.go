package logger

// Log field names shared across packages.
// 统一的日志字段命名
const (
	FieldTraceID   = "traceId"
	FieldUID       = "uid"
	FieldAction    = "action"
	FieldMethod    = "method"
	FieldDuration  = "duration"
	FieldError     = "error"
	FieldNoteID    = "noteId"
	FieldTagID     = "tagId"
	FieldOrder     = "order"
	FieldOldOrder  = "oldOrder"
	FieldSessionID = "sessionId"
	FieldPeers     = "peers"
	FieldScope     = "scope"
	FieldRemote    = "remote"
)
