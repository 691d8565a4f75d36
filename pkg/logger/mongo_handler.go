// MongoHandler tees slog records into a MongoDB collection without touching
// the hot request path:
//
//   - Records are enqueued into a buffered channel (non-blocking); when the
//     channel is full the record is dropped — logging must never block.
//   - One background goroutine drains the channel and batches InsertMany.
//   - Close() flushes the queue and disconnects.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoQueueSize = 4096
	mongoBatchSize = 50
	mongoDrainTick = 2 * time.Second
)

// logDocument is the shape written to MongoDB.
type logDocument struct {
	Time  time.Time `bson:"time"`
	Level string    `bson:"level"`
	Msg   string    `bson:"msg"`
	Attrs bson.M    `bson:"attrs,omitempty"`
}

// MongoHandler is an slog.Handler that forwards records to an inner handler
// and mirrors them to MongoDB asynchronously.
type MongoHandler struct {
	inner  slog.Handler
	client *mongo.Client
	col    *mongo.Collection
	queue  chan logDocument
	done   chan struct{}
}

// NewMongoHandler connects to uri and mirrors records into db.collection.
// The caller must eventually call Close().
func NewMongoHandler(uri, db, collection string, inner slog.Handler) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}

	h := &MongoHandler{
		inner:  inner,
		client: client,
		col:    client.Database(db).Collection(collection),
		queue:  make(chan logDocument, mongoQueueSize),
		done:   make(chan struct{}),
	}
	go h.drain()
	return h, nil
}

// Enabled defers to the inner handler.
func (h *MongoHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle forwards to the inner handler, then enqueues a copy for MongoDB.
func (h *MongoHandler) Handle(ctx context.Context, rec slog.Record) error {
	err := h.inner.Handle(ctx, rec)

	doc := logDocument{
		Time:  rec.Time,
		Level: rec.Level.String(),
		Msg:   rec.Message,
		Attrs: bson.M{},
	}
	rec.Attrs(func(a slog.Attr) bool {
		doc.Attrs[a.Key] = fmt.Sprintf("%v", a.Value.Any())
		return true
	})

	select {
	case h.queue <- doc:
	default:
		// Queue full — drop rather than block.
	}
	return err
}

// WithAttrs returns a handler whose inner handler carries the attrs. The
// Mongo mirror shares the queue and goroutine.
func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	return &clone
}

// WithGroup returns a handler whose inner handler carries the group.
func (h *MongoHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}

func (h *MongoHandler) drain() {
	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = h.col.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case doc, ok := <-h.queue:
			if !ok {
				flush()
				close(h.done)
				return
			}
			batch = append(batch, doc)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Close flushes pending records and disconnects the client.
func (h *MongoHandler) Close() error {
	close(h.queue)
	<-h.done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.client.Disconnect(ctx)
}
