package testutil

import "github.com/udisondev/skirmish/internal/model"

// CueRecord is one recorded cosmetic trigger.
type CueRecord struct {
	Agent model.Handle
	Cue   string
}

// RecordingCues — CueSink для тестов, запоминает все вызовы.
type RecordingCues struct {
	Records []CueRecord
}

func (r *RecordingCues) Cue(agent model.Handle, cue string) {
	r.Records = append(r.Records, CueRecord{Agent: agent, Cue: cue})
}

// Names returns recorded cue names in order.
func (r *RecordingCues) Names() []string {
	out := make([]string, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec.Cue
	}
	return out
}
