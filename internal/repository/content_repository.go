package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/storage"
)

// ContentRepository reads course content from PostgreSQL.
type ContentRepository struct {
	pool *pgxpool.Pool
}

// NewContentRepository creates a Postgres-backed content store.
func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

// Course retrieves a course by ID.
func (r *ContentRepository) Course(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) (*domain.Course, error) {
		query := `
			SELECT id, title, description, total_levels, created_at
			FROM courses WHERE id = $1
		`
		c := &domain.Course{}
		err := r.pool.QueryRow(ctx, query, id).Scan(
			&c.ID, &c.Title, &c.Description, &c.TotalLevels, &c.CreatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourseNotFound
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// CourseByTitle retrieves a course by its title, case-insensitively.
func (r *ContentRepository) CourseByTitle(ctx context.Context, title string) (*domain.Course, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) (*domain.Course, error) {
		query := `
			SELECT id, title, description, total_levels, created_at
			FROM courses WHERE LOWER(title) = LOWER($1)
		`
		c := &domain.Course{}
		err := r.pool.QueryRow(ctx, query, title).Scan(
			&c.ID, &c.Title, &c.Description, &c.TotalLevels, &c.CreatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourseNotFound
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// Courses lists all courses in creation order.
func (r *ContentRepository) Courses(ctx context.Context) ([]domain.Course, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) ([]domain.Course, error) {
		query := `
			SELECT id, title, description, total_levels, created_at
			FROM courses ORDER BY created_at, title
		`
		rows, err := r.pool.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		defer rows.Close()

		var courses []domain.Course
		for rows.Next() {
			var c domain.Course
			if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.TotalLevels, &c.CreatedAt); err != nil {
				return nil, err
			}
			courses = append(courses, c)
		}
		return courses, rows.Err()
	})
}

// Level retrieves a level by ID.
func (r *ContentRepository) Level(ctx context.Context, id uuid.UUID) (*domain.Level, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) (*domain.Level, error) {
		query := `
			SELECT id, course_id, level_number, title, created_at
			FROM levels WHERE id = $1
		`
		l := &domain.Level{}
		err := r.pool.QueryRow(ctx, query, id).Scan(
			&l.ID, &l.CourseID, &l.LevelNumber, &l.Title, &l.CreatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLevelNotFound
		}
		if err != nil {
			return nil, err
		}
		return l, nil
	})
}

// LevelsByCourse lists a course's levels ordered by level number.
func (r *ContentRepository) LevelsByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Level, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) ([]domain.Level, error) {
		query := `
			SELECT id, course_id, level_number, title, created_at
			FROM levels WHERE course_id = $1 ORDER BY level_number
		`
		rows, err := r.pool.Query(ctx, query, courseID)
		if err != nil {
			return nil, fmt.Errorf("list levels: %w", err)
		}
		defer rows.Close()

		var levels []domain.Level
		for rows.Next() {
			var l domain.Level
			if err := rows.Scan(&l.ID, &l.CourseID, &l.LevelNumber, &l.Title, &l.CreatedAt); err != nil {
				return nil, err
			}
			levels = append(levels, l)
		}
		return levels, rows.Err()
	})
}

// Question retrieves a question by ID.
func (r *ContentRepository) Question(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) (*domain.Question, error) {
		query := `
			SELECT id, level_id, question_type, title, description, difficulty,
				input_format, output_format, constraints, reference_solution, created_at
			FROM questions WHERE id = $1
		`
		q := &domain.Question{}
		err := r.pool.QueryRow(ctx, query, id).Scan(
			&q.ID, &q.LevelID, &q.QuestionType, &q.Title, &q.Description,
			&q.Difficulty, &q.InputFormat, &q.OutputFormat, &q.Constraints,
			&q.ReferenceSolution, &q.CreatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		if err != nil {
			return nil, err
		}
		return q, nil
	})
}

// QuestionsByLevel lists a level's questions of one type in creation order.
func (r *ContentRepository) QuestionsByLevel(ctx context.Context, levelID uuid.UUID, qtype domain.QuestionType) ([]domain.Question, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) ([]domain.Question, error) {
		query := `
			SELECT id, level_id, question_type, title, description, difficulty,
				input_format, output_format, constraints, reference_solution, created_at
			FROM questions WHERE level_id = $1 AND question_type = $2
			ORDER BY created_at, id
		`
		rows, err := r.pool.Query(ctx, query, levelID, qtype.String())
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		defer rows.Close()

		var questions []domain.Question
		for rows.Next() {
			var q domain.Question
			err := rows.Scan(&q.ID, &q.LevelID, &q.QuestionType, &q.Title,
				&q.Description, &q.Difficulty, &q.InputFormat, &q.OutputFormat,
				&q.Constraints, &q.ReferenceSolution, &q.CreatedAt)
			if err != nil {
				return nil, err
			}
			questions = append(questions, q)
		}
		return questions, rows.Err()
	})
}

// Option retrieves an MCQ option by ID.
func (r *ContentRepository) Option(ctx context.Context, id uuid.UUID) (*domain.MCQOption, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) (*domain.MCQOption, error) {
		query := `
			SELECT id, question_id, option_letter, option_text, is_correct
			FROM mcq_options WHERE id = $1
		`
		o := &domain.MCQOption{}
		var correct domain.FlexBool
		err := r.pool.QueryRow(ctx, query, id).Scan(
			&o.ID, &o.QuestionID, &o.OptionLetter, &o.OptionText, &correct,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOptionNotFound
		}
		if err != nil {
			return nil, err
		}
		o.IsCorrect = bool(correct)
		return o, nil
	})
}

// OptionsByQuestion lists a question's options ordered by letter.
func (r *ContentRepository) OptionsByQuestion(ctx context.Context, questionID uuid.UUID) ([]domain.MCQOption, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) ([]domain.MCQOption, error) {
		query := `
			SELECT id, question_id, option_letter, option_text, is_correct
			FROM mcq_options WHERE question_id = $1 ORDER BY option_letter
		`
		rows, err := r.pool.Query(ctx, query, questionID)
		if err != nil {
			return nil, fmt.Errorf("list options: %w", err)
		}
		defer rows.Close()

		var options []domain.MCQOption
		for rows.Next() {
			var o domain.MCQOption
			var correct domain.FlexBool
			if err := rows.Scan(&o.ID, &o.QuestionID, &o.OptionLetter, &o.OptionText, &correct); err != nil {
				return nil, err
			}
			o.IsCorrect = bool(correct)
			options = append(options, o)
		}
		return options, rows.Err()
	})
}

// TestCases lists a question's test cases ordered by their 1-based ordinal.
func (r *ContentRepository) TestCases(ctx context.Context, questionID uuid.UUID) ([]domain.TestCase, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) ([]domain.TestCase, error) {
		query := `
			SELECT id, question_id, test_case_number, input_data, expected_output, is_hidden
			FROM test_cases WHERE question_id = $1 ORDER BY test_case_number
		`
		rows, err := r.pool.Query(ctx, query, questionID)
		if err != nil {
			return nil, fmt.Errorf("list test cases: %w", err)
		}
		defer rows.Close()

		var cases []domain.TestCase
		for rows.Next() {
			var tc domain.TestCase
			var hidden domain.FlexBool
			err := rows.Scan(&tc.ID, &tc.QuestionID, &tc.TestCaseNumber,
				&tc.InputData, &tc.ExpectedOutput, &hidden)
			if err != nil {
				return nil, err
			}
			tc.IsHidden = bool(hidden)
			cases = append(cases, tc)
		}
		return cases, rows.Err()
	})
}
