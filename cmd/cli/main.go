// Command vector-cli operates directly on a snapshot store, without going
// through a running server: each invocation opens the store, applies one
// operation, and (for mutations) saves the result back before exiting.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/therealutkarshpriyadarshi/vector/pkg/hnsw"
	"github.com/therealutkarshpriyadarshi/vector/pkg/store"
)

const version = "1.0.0"

var (
	dataDir     string
	snapshotKey string
)

func main() {
	root := &cobra.Command{
		Use:   "vector-cli",
		Short: "Inspect and mutate a vector collection's on-disk snapshot",
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "snapshot store directory")
	root.PersistentFlags().StringVar(&snapshotKey, "key", "collection:snapshot", "snapshot key")

	root.AddCommand(
		newInsertCmd(),
		newSearchCmd(),
		newGetCmd(),
		newDeleteCmd(),
		newUpdateCmd(),
		newStatsCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vector-cli %s\n", version)
		},
	}
}

func newInsertCmd() *cobra.Command {
	var (
		vectorStr string
		dataStr   string
	)
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "insert a vector",
		RunE: func(cmd *cobra.Command, args []string) error {
			vector, err := parseVector(vectorStr)
			if err != nil {
				return err
			}
			st, collection, err := openOrCreate()
			if err != nil {
				return err
			}
			defer st.Close()

			id, err := collection.Insert(vector, json.RawMessage(dataStr))
			if err != nil {
				return fmt.Errorf("inserting: %w", err)
			}
			if err := save(st, collection); err != nil {
				return err
			}
			fmt.Printf("inserted id %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&vectorStr, "vector", "", "vector as a JSON array (required)")
	cmd.Flags().StringVar(&dataStr, "data", "{}", "payload as a JSON value")
	cmd.MarkFlagRequired("vector")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		vectorStr string
		k         int
		exact     bool
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "find the k nearest vectors to a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseVector(vectorStr)
			if err != nil {
				return err
			}
			st, collection, err := openExisting()
			if err != nil {
				return err
			}
			defer st.Close()

			var results []hnsw.SearchResult[json.RawMessage]
			if exact {
				results, err = collection.TrueSearch(query, k)
			} else {
				results, err = collection.Search(query, k)
			}
			if err != nil {
				return fmt.Errorf("searching: %w", err)
			}
			for i, r := range results {
				fmt.Printf("%d. id=%d distance=%.6f data=%s\n", i+1, r.ID, r.Distance, r.Data)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&vectorStr, "query", "", "query vector as a JSON array (required)")
	cmd.Flags().IntVar(&k, "k", 10, "number of results")
	cmd.Flags().BoolVar(&exact, "exact", false, "use brute-force search instead of the graph")
	cmd.MarkFlagRequired("query")
	return cmd
}

func newGetCmd() *cobra.Command {
	var id uint32
	cmd := &cobra.Command{
		Use:   "get",
		Short: "fetch a vector's stored payload by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, collection, err := openExisting()
			if err != nil {
				return err
			}
			defer st.Close()

			data, ok := collection.Get(hnsw.VectorID(id))
			if !ok {
				return fmt.Errorf("id %d not found", id)
			}
			fmt.Println(string(data))
			return nil
		},
	}
	cmd.Flags().Uint32Var(&id, "id", 0, "vector id (required)")
	cmd.MarkFlagRequired("id")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var id uint32
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "tombstone a vector by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, collection, err := openExisting()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := collection.Delete(hnsw.VectorID(id)); err != nil {
				return fmt.Errorf("deleting: %w", err)
			}
			if err := save(st, collection); err != nil {
				return err
			}
			fmt.Printf("deleted id %d\n", id)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&id, "id", 0, "vector id (required)")
	cmd.MarkFlagRequired("id")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var (
		id        uint32
		vectorStr string
		dataStr   string
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "replace a vector's embedding and payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			vector, err := parseVector(vectorStr)
			if err != nil {
				return err
			}
			st, collection, err := openExisting()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := collection.Update(hnsw.VectorID(id), vector, json.RawMessage(dataStr)); err != nil {
				return fmt.Errorf("updating: %w", err)
			}
			if err := save(st, collection); err != nil {
				return err
			}
			fmt.Printf("updated id %d\n", id)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&id, "id", 0, "vector id (required)")
	cmd.Flags().StringVar(&vectorStr, "vector", "", "new vector as a JSON array (required)")
	cmd.Flags().StringVar(&dataStr, "data", "{}", "new payload as a JSON value")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("vector")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "print collection size and dimensionality",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, collection, err := openExisting()
			if err != nil {
				return err
			}
			defer st.Close()

			fmt.Printf("vectors:   %d\n", collection.Len())
			fmt.Printf("dimension: %d\n", collection.Dimension())
			return nil
		},
	}
}

func openExisting() (*store.Store, *hnsw.Collection[json.RawMessage], error) {
	st, err := store.Open(dataDir, false)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	if !st.Exists(snapshotKey) {
		st.Close()
		return nil, nil, fmt.Errorf("no collection saved under key %q in %s", snapshotKey, dataDir)
	}
	snap, err := store.LoadSnapshot[json.RawMessage](st, snapshotKey)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return st, hnsw.FromSnapshot[json.RawMessage](hnsw.Euclidean, snap), nil
}

func openOrCreate() (*store.Store, *hnsw.Collection[json.RawMessage], error) {
	st, err := store.Open(dataDir, false)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	if st.Exists(snapshotKey) {
		snap, err := store.LoadSnapshot[json.RawMessage](st, snapshotKey)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		return st, hnsw.FromSnapshot[json.RawMessage](hnsw.Euclidean, snap), nil
	}
	return st, hnsw.New[json.RawMessage](hnsw.DefaultConfig(), hnsw.Euclidean), nil
}

func save(st *store.Store, collection *hnsw.Collection[json.RawMessage]) error {
	if err := store.SaveSnapshot(st, snapshotKey, collection.ToSnapshot()); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func parseVector(s string) (hnsw.Vector, error) {
	if s == "" {
		return nil, fmt.Errorf("a vector is required")
	}
	var floats []float32
	if err := json.Unmarshal([]byte(s), &floats); err != nil {
		return nil, fmt.Errorf("parsing vector: %w", err)
	}
	return hnsw.Vector(floats), nil
}
