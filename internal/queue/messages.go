package queue

// TableJobMsg is the body of a parse or validate job. Content carries the
// CSV text inline; Key names an object in the configured bucket instead.
type TableJobMsg struct {
	Content string `json:"content,omitempty" validate:"required_without=Key"`
	Key     string `json:"key,omitempty" validate:"required_without=Content"`
}

// JobReply is published to the ReplyTo queue of a job.
type JobReply struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func failed(message string) JobReply {
	return JobReply{Success: false, Error: message}
}
