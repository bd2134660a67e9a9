package docstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// maxFirestoreDocument stays under Firestore's 1 MiB document limit with
// room for the field names and timestamp.
const maxFirestoreDocument = 1_000_000

type collectionDocument struct {
	Records   string    `firestore:"records"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// FirestoreBackend keeps each collection as a single document under
// <root>/<collection>, so every rewrite is one atomic Set.
type FirestoreBackend struct {
	client *firestore.Client
	root   string
}

func NewFirestoreBackend(client *firestore.Client, root string) *FirestoreBackend {
	if root == "" {
		root = "laburo_collections"
	}
	return &FirestoreBackend{
		client: client,
		root:   root,
	}
}

// NewFirestoreClient opens a client for projectID. An empty credentialsPath
// falls back to application default credentials (or the emulator when
// FIRESTORE_EMULATOR_HOST is set).
func NewFirestoreClient(ctx context.Context, projectID, credentialsPath string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	return firestore.NewClient(ctx, projectID, opts...)
}

func (b *FirestoreBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	doc, err := b.client.Collection(b.root).Doc(collection).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var stored collectionDocument
	if err := doc.DataTo(&stored); err != nil {
		return nil, err
	}
	return []byte(stored.Records), nil
}

func (b *FirestoreBackend) Write(ctx context.Context, collection string, data []byte) error {
	if len(data) > maxFirestoreDocument {
		return fmt.Errorf("collection %s is %d bytes, over the Firestore document limit", collection, len(data))
	}

	_, err := b.client.Collection(b.root).Doc(collection).Set(ctx, collectionDocument{
		Records:   string(data),
		UpdatedAt: time.Now().UTC(),
	})
	return err
}
