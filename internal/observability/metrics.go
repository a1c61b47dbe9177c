package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agora_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VotesCast counts votes by outcome (created, removed, switched).
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_votes_cast_total",
		Help: "Total number of votes cast by outcome",
	}, []string{"outcome"})

	// CommentEvents counts comment writes by action.
	CommentEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_comment_events_total",
		Help: "Total number of comment writes by action",
	}, []string{"action"})

	// IdeasCreated counts submitted ideas.
	IdeasCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agora_ideas_created_total",
		Help: "Total number of ideas submitted",
	})

	// ImageUploads counts stored images by kind and result.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_image_uploads_total",
		Help: "Total number of image uploads by kind and result",
	}, []string{"kind", "result"})

	// AuthEvents counts authentication attempts by action and result.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_auth_events_total",
		Help: "Total number of authentication events by action and result",
	}, []string{"action", "result"})
)

const queryStartKey = "agora:query_start"

// RegisterGormMetrics hooks gorm callbacks so every statement is observed
// in DatabaseQueryLatency.
func RegisterGormMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "raw"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	steps := []struct {
		op       string
		register func(name string, before, after func(*gorm.DB)) error
	}{
		{"create", func(name string, b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register(name+":before", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register(name+":after", a)
		}},
		{"query", func(name string, b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register(name+":before", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register(name+":after", a)
		}},
		{"update", func(name string, b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register(name+":before", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register(name+":after", a)
		}},
		{"delete", func(name string, b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register(name+":before", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register(name+":after", a)
		}},
		{"row", func(name string, b, a func(*gorm.DB)) error {
			if err := cb.Row().Before("gorm:row").Register(name+":before", b); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Register(name+":after", a)
		}},
		{"raw", func(name string, b, a func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register(name+":before", b); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register(name+":after", a)
		}},
	}
	for _, s := range steps {
		if err := s.register("agora:metrics:"+s.op, before, after(s.op)); err != nil {
			return err
		}
	}
	return nil
}
