package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// ContentStore reads and writes course content: courses, levels, questions,
// options, and test cases.
type ContentStore struct {
	db *DB
}

// NewContentStore creates a SQLite-backed content store.
func NewContentStore(db *DB) *ContentStore {
	return &ContentStore{db: db}
}

// Course retrieves a course by ID.
func (s *ContentStore) Course(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, total_levels, created_at
		FROM courses WHERE id = ?`, id.String())
	return scanCourse(row)
}

// CourseByTitle retrieves a course by its title, case-insensitively.
func (s *ContentStore) CourseByTitle(ctx context.Context, title string) (*domain.Course, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, total_levels, created_at
		FROM courses WHERE title = ? COLLATE NOCASE`, title)
	return scanCourse(row)
}

// Courses lists all courses in creation order.
func (s *ContentStore) Courses(ctx context.Context) ([]domain.Course, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, total_levels, created_at
		FROM courses ORDER BY created_at, title`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// CreateCourse inserts a course.
func (s *ContentStore) CreateCourse(ctx context.Context, c *domain.Course) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (id, title, description, total_levels, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID.String(), c.Title, c.Description, c.TotalLevels, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

// Level retrieves a level by ID.
func (s *ContentStore) Level(ctx context.Context, id uuid.UUID) (*domain.Level, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, course_id, level_number, title, created_at
		FROM levels WHERE id = ?`, id.String())
	return scanLevel(row)
}

// LevelsByCourse lists a course's levels ordered by level number.
func (s *ContentStore) LevelsByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Level, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, course_id, level_number, title, created_at
		FROM levels WHERE course_id = ? ORDER BY level_number`, courseID.String())
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	var levels []domain.Level
	for rows.Next() {
		l, err := scanLevel(rows)
		if err != nil {
			return nil, err
		}
		levels = append(levels, *l)
	}
	return levels, rows.Err()
}

// CreateLevel inserts a level.
func (s *ContentStore) CreateLevel(ctx context.Context, l *domain.Level) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO levels (id, course_id, level_number, title, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		l.ID.String(), l.CourseID.String(), l.LevelNumber, l.Title, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert level: %w", err)
	}
	return nil
}

// Question retrieves a question by ID.
func (s *ContentStore) Question(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, level_id, question_type, title, description, difficulty,
			input_format, output_format, constraints, reference_solution, created_at
		FROM questions WHERE id = ?`, id.String())
	return scanQuestion(row)
}

// QuestionsByLevel lists a level's questions of one type in creation order.
func (s *ContentStore) QuestionsByLevel(ctx context.Context, levelID uuid.UUID, qtype domain.QuestionType) ([]domain.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level_id, question_type, title, description, difficulty,
			input_format, output_format, constraints, reference_solution, created_at
		FROM questions WHERE level_id = ? AND question_type = ?
		ORDER BY created_at, id`, levelID.String(), qtype.String())
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// CreateQuestion inserts a question.
func (s *ContentStore) CreateQuestion(ctx context.Context, q *domain.Question) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO questions (id, level_id, question_type, title, description,
			difficulty, input_format, output_format, constraints,
			reference_solution, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID.String(), q.LevelID.String(), q.QuestionType.String(), q.Title,
		q.Description, q.Difficulty, q.InputFormat, q.OutputFormat,
		q.Constraints, q.ReferenceSolution, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// Option retrieves an MCQ option by ID.
func (s *ContentStore) Option(ctx context.Context, id uuid.UUID) (*domain.MCQOption, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question_id, option_letter, option_text, is_correct
		FROM mcq_options WHERE id = ?`, id.String())
	return scanOption(row)
}

// OptionsByQuestion lists a question's options ordered by letter.
func (s *ContentStore) OptionsByQuestion(ctx context.Context, questionID uuid.UUID) ([]domain.MCQOption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_id, option_letter, option_text, is_correct
		FROM mcq_options WHERE question_id = ? ORDER BY option_letter`, questionID.String())
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer rows.Close()

	var options []domain.MCQOption
	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, *o)
	}
	return options, rows.Err()
}

// CreateOption inserts an MCQ option.
func (s *ContentStore) CreateOption(ctx context.Context, o *domain.MCQOption) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mcq_options (id, question_id, option_letter, option_text, is_correct)
		VALUES (?, ?, ?, ?, ?)`,
		o.ID.String(), o.QuestionID.String(), o.OptionLetter, o.OptionText, o.IsCorrect)
	if err != nil {
		return fmt.Errorf("insert option: %w", err)
	}
	return nil
}

// TestCases lists a question's test cases ordered by their 1-based ordinal.
func (s *ContentStore) TestCases(ctx context.Context, questionID uuid.UUID) ([]domain.TestCase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_id, test_case_number, input_data, expected_output, is_hidden
		FROM test_cases WHERE question_id = ? ORDER BY test_case_number`, questionID.String())
	if err != nil {
		return nil, fmt.Errorf("list test cases: %w", err)
	}
	defer rows.Close()

	var cases []domain.TestCase
	for rows.Next() {
		var tc domain.TestCase
		var id, qid string
		var hidden domain.FlexBool
		if err := rows.Scan(&id, &qid, &tc.TestCaseNumber, &tc.InputData, &tc.ExpectedOutput, &hidden); err != nil {
			return nil, fmt.Errorf("scan test case: %w", err)
		}
		if tc.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse test case id: %w", err)
		}
		if tc.QuestionID, err = uuid.Parse(qid); err != nil {
			return nil, fmt.Errorf("parse question id: %w", err)
		}
		tc.IsHidden = bool(hidden)
		cases = append(cases, tc)
	}
	return cases, rows.Err()
}

// CreateTestCase inserts a test case.
func (s *ContentStore) CreateTestCase(ctx context.Context, tc *domain.TestCase) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO test_cases (id, question_id, test_case_number, input_data, expected_output, is_hidden)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tc.ID.String(), tc.QuestionID.String(), tc.TestCaseNumber,
		tc.InputData, tc.ExpectedOutput, tc.IsHidden)
	if err != nil {
		return fmt.Errorf("insert test case: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (*domain.Course, error) {
	var c domain.Course
	var id string
	err := row.Scan(&id, &c.Title, &c.Description, &c.TotalLevels, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan course: %w", err)
	}
	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse course id: %w", err)
	}
	return &c, nil
}

func scanLevel(row scanner) (*domain.Level, error) {
	var l domain.Level
	var id, courseID string
	err := row.Scan(&id, &courseID, &l.LevelNumber, &l.Title, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLevelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan level: %w", err)
	}
	if l.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse level id: %w", err)
	}
	if l.CourseID, err = uuid.Parse(courseID); err != nil {
		return nil, fmt.Errorf("parse course id: %w", err)
	}
	return &l, nil
}

func scanQuestion(row scanner) (*domain.Question, error) {
	var q domain.Question
	var id, levelID, qtype string
	err := row.Scan(&id, &levelID, &qtype, &q.Title, &q.Description, &q.Difficulty,
		&q.InputFormat, &q.OutputFormat, &q.Constraints, &q.ReferenceSolution, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan question: %w", err)
	}
	if q.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse question id: %w", err)
	}
	if q.LevelID, err = uuid.Parse(levelID); err != nil {
		return nil, fmt.Errorf("parse level id: %w", err)
	}
	q.QuestionType = domain.QuestionType(qtype)
	return &q, nil
}

func scanOption(row scanner) (*domain.MCQOption, error) {
	var o domain.MCQOption
	var id, questionID string
	var correct domain.FlexBool
	err := row.Scan(&id, &questionID, &o.OptionLetter, &o.OptionText, &correct)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan option: %w", err)
	}
	if o.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse option id: %w", err)
	}
	if o.QuestionID, err = uuid.Parse(questionID); err != nil {
		return nil, fmt.Errorf("parse question id: %w", err)
	}
	o.IsCorrect = bool(correct)
	return &o, nil
}
