package datasource

import (
	"fmt"

	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// ValidateSource checks that a source can be opened and parsed, records the
// result on the source, and returns the validation error if any.
func ValidateSource(src *DataSource) error {
	var err error
	switch src.Type {
	case SourceTypeJSON:
		err = validateJSON(src)
	case SourceTypeSQLite:
		err = validateSQLite(src)
	default:
		err = fmt.Errorf("unknown source type: %s", src.Type)
	}

	if err != nil {
		src.Valid = false
		src.ValidationError = err.Error()
		return err
	}
	src.Valid = true
	src.ValidationError = ""
	return nil
}

func validateJSON(src *DataSource) error {
	st, err := NewJSONStore(src.Path).Load()
	if err != nil {
		return err
	}
	if err := st.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	src.QuestionCount = countQuestions(st.Topics)
	return nil
}

func validateSQLite(src *DataSource) error {
	db, err := OpenSQLiteStore(src.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	count, err := db.CountQuestions()
	if err != nil {
		return fmt.Errorf("counting questions: %w", err)
	}
	src.QuestionCount = count
	return nil
}

func countQuestions(topics []model.Topic) int {
	total := 0
	for _, t := range topics {
		for _, sub := range t.Subtopics {
			total += len(sub.Questions)
		}
	}
	return total
}
