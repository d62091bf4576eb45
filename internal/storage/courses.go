package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/wondering-app/wondering-go/internal/course"
	apperrors "github.com/wondering-app/wondering-go/internal/errors"
)

// CourseRepository archives completed courses. Payloads are stored as
// zstd-compressed JSON; a full course with 3 generated lessons compresses
// to a few kilobytes.
type CourseRepository struct {
	db   *DB
	errw *apperrors.ErrorWrapper
}

// NewCourseRepository creates a repository backed by db.
func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{
		db:   db,
		errw: apperrors.NewWrapper("storage", "courses"),
	}
}

// SaveCourse inserts or replaces a completed course.
func (r *CourseRepository) SaveCourse(ctx context.Context, c *course.Course) error {
	payload, err := compressCourse(c)
	if err != nil {
		return r.errw.Wrapf(err, "encode course %s", c.CourseID)
	}

	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO courses (course_id, topic, level, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(course_id) DO UPDATE SET
			topic = excluded.topic,
			level = excluded.level,
			payload = excluded.payload
	`, c.CourseID, c.Topic, string(c.Level), payload)
	if err != nil {
		return r.errw.Wrapf(err, "save course %s", c.CourseID)
	}
	return nil
}

// GetCourse loads a course by id. Returns ErrNotFound for unknown ids.
func (r *CourseRepository) GetCourse(ctx context.Context, courseID string) (*course.Course, error) {
	var payload []byte
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT payload FROM courses WHERE course_id = ?`, courseID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, r.errw.Wrapf(err, "load course %s", courseID)
	}

	c, err := decompressCourse(payload)
	if err != nil {
		return nil, r.errw.Wrapf(err, "decode course %s", courseID)
	}
	return c, nil
}

// CountCourses returns the number of archived courses.
func (r *CourseRepository) CountCourses(ctx context.Context) (int, error) {
	var n int
	if err := r.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return 0, r.errw.Wrap(err, "count courses")
	}
	return n, nil
}

func compressCourse(c *course.Course) ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	if _, err := encoder.Write(raw); err != nil {
		_ = encoder.Close()
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressCourse(payload []byte) (*course.Course, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, err
	}

	var c course.Course
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
