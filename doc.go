// Package somgo trains labeled self-organizing maps.
//
// A map is a rectangular grid of neurons, each holding a weight vector in
// the same space as the inputs. Training normalizes the inputs to unit
// length, seeds the grid by sampling around the input mean, and then pulls
// neighborhoods of best-matching units towards the inputs under a shrinking
// radius and decaying learning rate. After training every neuron takes the
// label of its nearest input and the labels are compacted into short
// mnemonic codes.
//
// # Quick Start
//
//	trainer, _ := somgo.New(somgo.WithSeed(42), somgo.WithMode(som.Shuffled))
//	m, _ := trainer.Train(ctx, vectors)
//
//	for _, row := range m.Codes() {
//	    fmt.Println(strings.Join(row, " "))
//	}
//
//	label, pos, _ := m.Classify(som.NewVector([]float64{1, 0.1, 0.1}, ""))
//
// # Persistence
//
// Maps are stored as self-describing snapshots in any blobstore.BlobStore:
//
//	store := blobstore.NewLocalStore("./maps")
//	name, _ := trainer.Save(ctx, store, m)
//	m, _ = somgo.Load(ctx, store)
//
// Remote stores live in blobstore/s3 and blobstore/minio.
//
// # Observability
//
// Structured logging goes through Logger (log/slog). Operational metrics go
// through MetricsCollector; BasicMetricsCollector keeps in-memory counters.
//
// # Resource Limits
//
// A resource.Controller passed WithResourceController bounds concurrent
// trainings, weight-arena memory and snapshot I/O throughput.
package somgo
