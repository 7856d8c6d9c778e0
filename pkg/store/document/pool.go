package document

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ServerSelectionTimeout = 10 * time.Second
	SocketTimeout          = 45 * time.Second
)

var (
	ErrUnknownRegion = errors.New("no document store configured for region")
	ErrMissingURI    = errors.New("document store uri is not set")
	ErrUnknownKind   = errors.New("unknown query kind")
)

// Executor runs a declarative query against the document store of a region.
type Executor interface {
	Run(ctx context.Context, q Query, region domain.Region) ([]Record, error)
}

type Settings struct {
	URI      string
	Database string
}

// Pool keeps one client per region, connected on first use. Close releases
// all of them.
type Pool struct {
	settings map[domain.Region]Settings

	mu      sync.Mutex
	clients map[domain.Region]*mongo.Client
}

func NewPool(settings map[domain.Region]Settings) *Pool {
	return &Pool{
		settings: settings,
		clients:  make(map[domain.Region]*mongo.Client),
	}
}

func (p *Pool) Run(ctx context.Context, q Query, region domain.Region) ([]Record, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("region", region.String()).
		Str("collection", q.Collection).
		Logger()

	db, err := p.database(ctx, region)
	if err != nil {
		return nil, err
	}
	coll := db.Collection(q.Collection)

	var cur *mongo.Cursor
	switch q.Kind {
	case KindAggregate:
		cur, err = coll.Aggregate(ctx, q.Pipeline)
	case KindFind, "":
		opts := options.Find()
		if q.Projection != nil {
			opts.SetProjection(q.Projection)
		}
		if q.Sort != nil {
			opts.SetSort(q.Sort)
		}
		if q.Limit > 0 {
			opts.SetLimit(q.Limit)
		}
		filter := q.Filter
		if filter == nil {
			filter = bson.M{}
		}
		cur, err = coll.Find(ctx, filter, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, q.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to run %s on %s: %w", q.Kind, q.Collection, err)
	}
	defer func(cur *mongo.Cursor) {
		err := cur.Close(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close cursor")
		}
	}(cur)

	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to read %s results: %w", q.Collection, err)
	}

	logger.Debug().Int("documents", len(records)).Msgf("%s returned", q.Kind)
	return records, nil
}

func (p *Pool) database(ctx context.Context, region domain.Region) (*mongo.Database, error) {
	settings, ok := p.settings[region]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	if settings.URI == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingURI, region)
	}

	client, err := p.client(ctx, region, settings)
	if err != nil {
		return nil, err
	}

	return client.Database(settings.Database), nil
}

func (p *Pool) client(ctx context.Context, region domain.Region, settings Settings) (*mongo.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[region]; ok {
		return client, nil
	}

	opts := options.Client().
		ApplyURI(settings.URI).
		SetServerSelectionTimeout(ServerSelectionTimeout).
		SetSocketTimeout(SocketTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect document store for %s: %w", region, err)
	}

	zerolog.Ctx(ctx).Info().Str("region", region.String()).Msg("document store connected")
	p.clients[region] = client
	return client, nil
}

// Close disconnects every client the pool opened. It keeps going past
// failures and returns them joined.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	var errs []error
	for region, client := range p.clients {
		if err := client.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Str("region", region.String()).Msg("failed to disconnect document store")
			errs = append(errs, fmt.Errorf("disconnect %s: %w", region, err))
		}
		delete(p.clients, region)
	}

	return errors.Join(errs...)
}
