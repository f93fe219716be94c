package lifecycle

// Task is one service-bus request routed to the lifecycle manager. It
// owns the reply callback; exactly one reply is posted per task.
type Task struct {
	callerID string
	payload  map[string]any
	reply    func(map[string]any)
	replied  bool
}

// NewTask wraps an incoming request.
func NewTask(callerID string, payload map[string]any, reply func(map[string]any)) *Task {
	if payload == nil {
		payload = map[string]any{}
	}
	return &Task{callerID: callerID, payload: payload, reply: reply}
}

// CallerID returns the requesting service's id.
func (t *Task) CallerID() string { return t.callerID }

// Payload returns the raw request payload.
func (t *Task) Payload() map[string]any { return t.payload }

// AppID returns the payload's "id" field, empty when absent.
func (t *Task) AppID() string {
	id, _ := t.payload["id"].(string)
	return id
}

// takeReply hands the reply off to a launch item; the task will not
// reply on its own afterwards.
func (t *Task) takeReply() func(map[string]any) {
	reply := t.reply
	t.replied = true
	return reply
}

// Reply answers the request successfully, merging returnValue into the
// payload. Only the first reply wins.
func (t *Task) Reply(payload map[string]any) {
	if t.replied {
		return
	}
	t.replied = true
	if payload == nil {
		payload = map[string]any{}
	}
	if _, ok := payload["returnValue"]; !ok {
		payload["returnValue"] = true
	}
	if t.reply != nil {
		t.reply(payload)
	}
}

// ReplyError answers the request with an error.
func (t *Task) ReplyError(errorCode int, errorText string) {
	if t.replied {
		return
	}
	t.replied = true
	if t.reply != nil {
		t.reply(map[string]any{
			"returnValue": false,
			"errorCode":   errorCode,
			"errorText":   errorText,
		})
	}
}
