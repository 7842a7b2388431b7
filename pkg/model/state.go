package model

// State is the persisted shape of a tracked sheet, written after every
// mutation and read back at startup. Loading is always persisted as false:
// an in-progress load must never survive a restart.
type State struct {
	Sheet             Sheet           `json:"sheet"`
	Topics            []Topic         `json:"topics"`
	ExpandedTopics    map[string]bool `json:"expandedTopics"`
	ExpandedSubtopics map[string]bool `json:"expandedSubtopics"`
	Theme             string          `json:"theme"`
	Loading           bool            `json:"loading"`
}

// Clone returns a deep copy of the state.
func (st State) Clone() State {
	out := st
	out.Sheet = st.Sheet.Clone()
	out.Topics = CloneTopics(st.Topics)
	if st.ExpandedTopics != nil {
		out.ExpandedTopics = make(map[string]bool, len(st.ExpandedTopics))
		for k, v := range st.ExpandedTopics {
			out.ExpandedTopics[k] = v
		}
	}
	if st.ExpandedSubtopics != nil {
		out.ExpandedSubtopics = make(map[string]bool, len(st.ExpandedSubtopics))
		for k, v := range st.ExpandedSubtopics {
			out.ExpandedSubtopics[k] = v
		}
	}
	return out
}

// Validate checks every topic subtree and ID uniqueness across the tree.
func (st State) Validate() error {
	seen := make(map[string]string)
	note := func(id, kind string) error {
		if id == "" {
			return nil
		}
		if prev, ok := seen[id]; ok {
			return &DuplicateIDError{ID: id, First: prev, Second: kind}
		}
		seen[id] = kind
		return nil
	}
	for _, t := range st.Topics {
		if err := t.Validate(); err != nil {
			return err
		}
		if err := note(t.ID, "topic"); err != nil {
			return err
		}
		for _, s := range t.Subtopics {
			if err := note(s.ID, "subtopic"); err != nil {
				return err
			}
			for _, q := range s.Questions {
				if err := note(q.ID, "question"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// DuplicateIDError reports an ID that appears more than once in the tree.
// Solve/star/notes lookups are keyed by bare ID, so collisions would make
// those operations ambiguous.
type DuplicateIDError struct {
	ID     string
	First  string
	Second string
}

func (e *DuplicateIDError) Error() string {
	return "duplicate id " + e.ID + " (" + e.First + " and " + e.Second + ")"
}
