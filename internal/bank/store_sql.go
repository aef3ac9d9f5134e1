package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mind-engage/qbank/internal/db"
)

const copySuffix = " (Copy)"

type SQLStore struct {
	h *sql.DB
}

func NewSQLStore(h *sql.DB) *SQLStore {
	return &SQLStore{h: h}
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Overview, error) {
	var (
		where string
		args  []any
	)
	if q := strings.TrimSpace(opts.Q); q != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(q))+"%")
		where = `WHERE LOWER(q.title) LIKE $1 ESCAPE '\'
		   OR LOWER(COALESCE(q.tags,'')) LIKE $1 ESCAPE '\'
		   OR LOWER(q.questiontext) LIKE $1 ESCAPE '\'`
	}
	query := `SELECT q.id, q.title, COALESCE(q.points,1.0), COALESCE(q.tags,''), COUNT(a.id)
		FROM questions q LEFT JOIN answers a ON a.question_id = q.id
		` + where + `
		GROUP BY q.id, q.title, q.points, q.tags
		ORDER BY q.id`
	if opts.Limit > 0 {
		args = append(args, opts.Limit, opts.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.h.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Overview{}
	for rows.Next() {
		var (
			o    Overview
			tags string
		)
		if err := rows.Scan(&o.ID, &o.Title, &o.Points, &tags, &o.AnswerCount); err != nil {
			return nil, err
		}
		o.Tags = SplitTags(tags)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, id int64) (Question, error) {
	var (
		q      Question
		single int64
		tags   string
		typ    string
	)
	err := s.h.QueryRowContext(ctx, `SELECT id, title, questiontext, COALESCE(single,1), COALESCE(tags,''),
		COALESCE(points,1.0), COALESCE(question_type,'multichoice')
		FROM questions WHERE id=$1`, id).
		Scan(&q.ID, &q.Title, &q.Body, &single, &tags, &q.Points, &typ)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	q.Tags = SplitTags(tags)

	t, err := ParseType(typ)
	if err != nil {
		return Question{}, fmt.Errorf("question %d: %w", id, err)
	}
	if t == TypeEssay {
		// essays never carry answers, even if rows are left over
		q.Variant = Essay{}
		return q, nil
	}

	answers, err := loadAnswers(ctx, s.h, id)
	if err != nil {
		return Question{}, err
	}
	if t == TypeShortAnswer {
		q.Variant = ShortAnswer{Answers: answers}
	} else {
		q.Variant = MultiChoice{Single: single != 0, Answers: answers}
	}
	return q, nil
}

func (s *SQLStore) Save(ctx context.Context, q Question) (int64, error) {
	if err := Validate(q); err != nil {
		return 0, err
	}
	var id int64
	err := db.WithTx(ctx, s.h, func(tx *sql.Tx) error {
		var err error
		id, err = insertQuestion(ctx, tx, q)
		if err != nil {
			return err
		}
		return insertAnswers(ctx, tx, id, q.Answers())
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *SQLStore) Update(ctx context.Context, q Question) error {
	if err := Validate(q); err != nil {
		return err
	}
	return db.WithTx(ctx, s.h, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE questions
			SET title=$1, questiontext=$2, single=$3, tags=$4, points=$5, question_type=$6
			WHERE id=$7`,
			strings.TrimSpace(q.Title), strings.TrimSpace(q.Body), boolInt(q.Single()),
			JoinTags(q.Tags), q.Points, string(q.Type()), q.ID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE question_id=$1`, q.ID); err != nil {
			return err
		}
		return insertAnswers(ctx, tx, q.ID, q.Answers())
	})
}

func (s *SQLStore) Duplicate(ctx context.Context, id int64) (int64, error) {
	var newID int64
	err := db.WithTx(ctx, s.h, func(tx *sql.Tx) error {
		var (
			title, body, tags, typ string
			single                 int64
			points                 float64
		)
		err := tx.QueryRowContext(ctx, `SELECT title, questiontext, COALESCE(single,1), COALESCE(tags,''),
			COALESCE(points,1.0), COALESCE(question_type,'multichoice')
			FROM questions WHERE id=$1`, id).
			Scan(&title, &body, &single, &tags, &points, &typ)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.QueryRowContext(ctx, `INSERT INTO questions (title, questiontext, single, tags, points, question_type)
			VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			title+copySuffix, body, single, tags, points, typ).Scan(&newID); err != nil {
			return err
		}

		// raw rows, so answers kept on an essay are copied too
		rows, err := tx.QueryContext(ctx, `SELECT answertext, COALESCE(is_correct,0)
			FROM answers WHERE question_id=$1 ORDER BY id`, id)
		if err != nil {
			return err
		}
		type row struct {
			text    string
			correct int64
		}
		var copies []row
		for rows.Next() {
			var r row
			if err := rows.Scan(&r.text, &r.correct); err != nil {
				rows.Close()
				return err
			}
			copies = append(copies, r)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for _, r := range copies {
			if _, err := tx.ExecContext(ctx, `INSERT INTO answers (question_id, answertext, is_correct)
				VALUES ($1,$2,$3)`, newID, r.text, r.correct); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newID, nil
}

func (s *SQLStore) Delete(ctx context.Context, ids []int64) (int, error) {
	removed := 0
	err := db.WithTx(ctx, s.h, func(tx *sql.Tx) error {
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			removed += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *SQLStore) Import(ctx context.Context, qs []Question) ([]int64, error) {
	ids := make([]int64, 0, len(qs))
	err := db.WithTx(ctx, s.h, func(tx *sql.Tx) error {
		for _, q := range qs {
			id, err := insertQuestion(ctx, tx, q)
			if err != nil {
				return err
			}
			if err := insertAnswers(ctx, tx, id, q.Answers()); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func insertQuestion(ctx context.Context, tx *sql.Tx, q Question) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `INSERT INTO questions (title, questiontext, single, tags, points, question_type)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		strings.TrimSpace(q.Title), strings.TrimSpace(q.Body), boolInt(q.Single()),
		JoinTags(q.Tags), q.Points, string(q.Type())).Scan(&id)
	return id, err
}

// insertAnswers drops answers whose text is blank.
func insertAnswers(ctx context.Context, tx *sql.Tx, qid int64, answers []Answer) error {
	for _, a := range answers {
		text := strings.TrimSpace(a.Text)
		if text == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO answers (question_id, answertext, is_correct)
			VALUES ($1,$2,$3)`, qid, text, boolInt(a.Correct)); err != nil {
			return err
		}
	}
	return nil
}

func loadAnswers(ctx context.Context, h *sql.DB, qid int64) ([]Answer, error) {
	rows, err := h.QueryContext(ctx, `SELECT id, answertext, COALESCE(is_correct,0)
		FROM answers WHERE question_id=$1 ORDER BY id`, qid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Answer
	for rows.Next() {
		var (
			a       Answer
			correct int64
		)
		if err := rows.Scan(&a.ID, &a.Text, &correct); err != nil {
			return nil, err
		}
		a.Correct = correct != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
