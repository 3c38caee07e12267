// Command djilog parses DJI flight log files and inspects their
// contents: flight summary, decoded records, and the normalized frame
// timeline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"djilog/internal/catalog"
	"djilog/internal/djiparser"
	"djilog/internal/frames"
	"djilog/internal/keychain"
	"djilog/internal/store"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "djilog - commands:")
	fmt.Fprintln(w, "  info             - print the flight summary (Details) as JSON")
	fmt.Fprintln(w, "  records          - dump decoded records as JSONL")
	fmt.Fprintln(w, "  frames           - dump the normalized frame timeline as JSONL")
	fmt.Fprintln(w, "  keychain-request - print the vendor keychain request payload")
	fmt.Fprintln(w, "  catalog          - record a session in the local flight catalog")
	fmt.Fprintln(w, "  archive          - sync unsynced catalog sessions to the Postgres/ClickHouse archive")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  djilog <command> -input log.bin [flags]")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "info":
		runInfo(os.Args[2:])
	case "records":
		runRecords(os.Args[2:])
	case "frames":
		runFrames(os.Args[2:])
	case "keychain-request":
		runKeychainRequest(os.Args[2:])
	case "catalog":
		runCatalog(os.Args[2:])
	case "archive":
		runArchive(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

func openParser(inPath string) (*djiparser.Parser, []byte) {
	if inPath == "" {
		fmt.Fprintln(os.Stderr, "-input is required")
		os.Exit(2)
	}
	data, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(1)
	}
	p, err := djiparser.FromBytes(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse log: %v\n", err)
		os.Exit(1)
	}
	return p, data
}

func runInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	inPath := fs.String("input", "", "Input DJI log file")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	_ = fs.Parse(args)

	p, _ := openParser(*inPath)
	writeJSON(os.Stdout, p.Details(), *pretty)
}

func runRecords(args []string) {
	fs := flag.NewFlagSet("records", flag.ExitOnError)
	inPath := fs.String("input", "", "Input DJI log file")
	apiKey := fs.String("api-key", "", "Vendor API key for v13+ keychain decryption")
	_ = fs.Parse(args)

	p, _ := openParser(*inPath)
	method := decryptMethodFromFlags(p, *apiKey)

	seq, err := p.Records(context.Background(), method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open record sequence: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	for {
		rec, err := seq.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading records: %v\n", err)
			os.Exit(1)
		}
		if rec == nil {
			break
		}
		_ = enc.Encode(rec)
	}

	for _, d := range seq.Diagnostics() {
		fmt.Fprintf(os.Stderr, "diagnostic: %s at offset %d (type %d)\n", d.Kind, d.Offset, d.RecordType)
	}
	if !seq.EndSeen() {
		fmt.Fprintln(os.Stderr, "diagnostic: records area exhausted without an End record")
	}
}

func runFrames(args []string) {
	fs := flag.NewFlagSet("frames", flag.ExitOnError)
	inPath := fs.String("input", "", "Input DJI log file")
	apiKey := fs.String("api-key", "", "Vendor API key for v13+ keychain decryption")
	_ = fs.Parse(args)

	p, _ := openParser(*inPath)
	method := decryptMethodFromFlags(p, *apiKey)

	seq, err := p.Frames(context.Background(), method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open frame sequence: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	for {
		f, err := seq.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading frames: %v\n", err)
			os.Exit(1)
		}
		if f == nil {
			break
		}
		_ = enc.Encode(f)
	}
	if !seq.EndSeen() {
		fmt.Fprintln(os.Stderr, "diagnostic: records area exhausted without an End record")
	}
}

func runKeychainRequest(args []string) {
	fs := flag.NewFlagSet("keychain-request", flag.ExitOnError)
	inPath := fs.String("input", "", "Input DJI log file")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	_ = fs.Parse(args)

	p, _ := openParser(*inPath)
	req, err := p.KeychainRequest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	writeJSON(os.Stdout, req, *pretty)
}

func runCatalog(args []string) {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	inPath := fs.String("input", "", "Input DJI log file")
	dbPath := fs.String("db", "djilog-catalog.db", "Path to the flight catalog SQLite database")
	_ = fs.Parse(args)

	p, _ := openParser(*inPath)

	c, err := catalog.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open catalog: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	id, err := c.RecordSession(p.Details(), *inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to record session: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("recorded session %s for aircraft %s\n", id, p.Details().AircraftSN)
}

// runArchive drains catalog sessions not yet marked synced, re-parses
// each one's backing log file, and pushes it into the Postgres (session
// metadata + compressed raw bytes) and ClickHouse (per-frame time series)
// archive, marking the session synced only once both writes succeed.
func runArchive(args []string) {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	dbPath := fs.String("db", "djilog-catalog.db", "Path to the flight catalog SQLite database")
	apiKey := fs.String("api-key", "", "Vendor API key for v13+ keychain decryption")

	pgHost := fs.String("pg-host", envOrDefault("POSTGRES_HOST", "localhost"), "PostgreSQL host")
	pgPort := fs.Int("pg-port", envOrDefaultInt("POSTGRES_PORT", 5432), "PostgreSQL port")
	pgDB := fs.String("pg-database", envOrDefault("POSTGRES_DATABASE", "djilog_archive"), "PostgreSQL database")
	pgUser := fs.String("pg-user", envOrDefault("POSTGRES_USER", "djilog"), "PostgreSQL user")
	pgPassword := fs.String("pg-password", envOrDefault("POSTGRES_PASSWORD", "djilog"), "PostgreSQL password")

	chHost := fs.String("ch-host", envOrDefault("CLICKHOUSE_HOST", "localhost"), "ClickHouse host")
	chPort := fs.Int("ch-port", envOrDefaultInt("CLICKHOUSE_PORT", 9000), "ClickHouse port")
	chDB := fs.String("ch-database", envOrDefault("CLICKHOUSE_DATABASE", "djilog_archive"), "ClickHouse database")
	chUser := fs.String("ch-user", envOrDefault("CLICKHOUSE_USER", "default"), "ClickHouse user")
	chPassword := fs.String("ch-password", envOrDefault("CLICKHOUSE_PASSWORD", ""), "ClickHouse password")
	_ = fs.Parse(args)

	ctx := context.Background()

	c, err := catalog.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open catalog: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	pg, err := store.OpenPostgres(ctx, store.PostgresConfig{
		Host: *pgHost, Port: *pgPort, Database: *pgDB, User: *pgUser, Password: *pgPassword,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()
	if err := pg.CreateSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create PostgreSQL schema: %v\n", err)
		os.Exit(1)
	}

	ch, err := store.OpenClickHouse(ctx, store.ClickHouseConfig{
		Host: *chHost, Port: *chPort, Database: *chDB, User: *chUser, Password: *chPassword,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open ClickHouse: %v\n", err)
		os.Exit(1)
	}
	defer ch.Close()
	if err := ch.CreateSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create ClickHouse schema: %v\n", err)
		os.Exit(1)
	}

	pending, err := c.UnsyncedSessions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list unsynced sessions: %v\n", err)
		os.Exit(1)
	}

	synced := 0
	for _, sess := range pending {
		if err := archiveSession(ctx, c, pg, ch, sess, *apiKey); err != nil {
			fmt.Fprintf(os.Stderr, "session %s (%s): %v\n", sess.ID, sess.SourcePath, err)
			continue
		}
		synced++
	}
	fmt.Printf("archived %d/%d unsynced session(s)\n", synced, len(pending))
}

func archiveSession(ctx context.Context, c *catalog.Catalog, pg *store.PostgresDB, ch *store.ClickHouseDB, sess *catalog.Session, apiKey string) error {
	raw, err := os.ReadFile(sess.SourcePath)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	p, err := djiparser.FromBytes(raw)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	frameSeq, err := p.Frames(ctx, decryptMethodFromFlags(p, apiKey))
	if err != nil {
		return fmt.Errorf("open frame sequence: %w", err)
	}
	var track []*frames.Frame
	for {
		f, err := frameSeq.Next()
		if err != nil {
			return fmt.Errorf("read frames: %w", err)
		}
		if f == nil {
			break
		}
		track = append(track, f)
	}

	if err := pg.PutSession(ctx, sess.ID, p.Details(), raw); err != nil {
		return fmt.Errorf("store session metadata: %w", err)
	}
	if err := ch.InsertFrames(ctx, sess.ID, track); err != nil {
		return fmt.Errorf("store frame track: %w", err)
	}
	if err := c.MarkSynced(sess.ID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func decryptMethodFromFlags(p *djiparser.Parser, apiKey string) djiparser.DecryptMethod {
	if apiKey == "" {
		return djiparser.NoDecryption()
	}
	client := keychain.NewClient(keychain.DefaultClientConfig())
	return djiparser.WithAPIKey(apiKey, client)
}

func writeJSON(w io.Writer, v any, pretty bool) {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
