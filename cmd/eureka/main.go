// Command eureka is the CLI surface over the fingerprinting core: add
// songs, identify clips, list the catalog. Dispatch follows a flat
// flag.Parse() style rather than a subcommand framework, matching the
// reference design's short, fixed verb list.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/eureka-audio/eureka/internal/config"
	"github.com/eureka-audio/eureka/internal/eureka"
	"github.com/eureka-audio/eureka/internal/logging"
	"github.com/eureka-audio/eureka/internal/match"
	"github.com/eureka-audio/eureka/internal/store"
	"github.com/eureka-audio/eureka/internal/store/mysqlstore"
	"github.com/eureka-audio/eureka/internal/store/postgresstore"
	"github.com/eureka-audio/eureka/internal/store/sqlitestore"
)

func main() {
	var (
		file       = flag.String("file", "", "path to an audio file to add")
		name       = flag.String("name", "", "song name (default: file name)")
		artist     = flag.String("artist", "", "song artist")
		dir        = flag.String("dir", "", "directory to ingest non-recursively")
		recognize  = flag.String("recognize", "", "path to an audio file to identify")
		microphone = flag.Bool("microphone", false, "identify from the default microphone (30s timeout)")
		list       = flag.Bool("list", false, "list songs in the catalog")
		cleanup    = flag.Bool("cleanup", false, "remove duplicate songs from the catalog")
		del        = flag.Int64("delete", -1, "delete a song by id")
		dbPath     = flag.String("db", "fingerprints.db", "sqlite database path (ignored when -config is given)")
		configPath = flag.String("config", "", "path to a YAML config file (overrides -db's driver/dsn)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath, *dbPath)
	if err != nil {
		fail(err)
	}

	log := logging.New(logging.ParseLevel(cfg.Log.Level))

	db, err := openStore(*cfg)
	if err != nil {
		fail(err)
	}
	defer db.Close()

	app := eureka.New(db, *cfg, log)
	ctx := context.Background()

	switch {
	case *del >= 0:
		if err := app.Delete(ctx, *del); err != nil {
			fail(err)
		}
		fmt.Printf("Deleted song %d\n", *del)

	case *cleanup:
		n, err := app.Cleanup(ctx)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Removed %d duplicate song(s)\n", n)

	case *list:
		runList(ctx, app)

	case *microphone:
		runMicrophone(ctx, app)

	case *recognize != "":
		runRecognize(ctx, app, *recognize)

	case *dir != "":
		runAddDir(ctx, app, *dir)

	case *file != "":
		runAdd(ctx, app, *file, *name, *artist)

	default:
		fmt.Fprintln(os.Stderr, "provide -file to add a song, -dir to add a directory, -recognize to identify a file, -microphone for live recognition, or -list to inspect the catalog")
		flag.Usage()
		os.Exit(1)
	}
}

func loadConfig(configPath, dbPath string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg := config.Default()
	cfg.Database.DSN = dbPath
	return &cfg, nil
}

func openStore(cfg config.Config) (store.Database, error) {
	switch cfg.Database.Driver {
	case "mysql":
		return mysqlstore.Open(cfg.Database.DSN)
	case "postgres":
		return postgresstore.Open(cfg.Database.DSN)
	case "sqlite", "":
		return sqlitestore.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func runAdd(ctx context.Context, app *eureka.Eureka, path, name, artist string) {
	song, err := app.Add(ctx, path, name, artist)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Added: %s (id=%d)\n", song.Name, song.ID)
}

func runAddDir(ctx context.Context, app *eureka.Eureka, dir string) {
	songs, err := app.AddDir(ctx, dir)
	if err != nil {
		fail(err)
	}
	if len(songs) == 0 {
		fmt.Printf("No audio files found in %s\n", dir)
		return
	}
	for _, song := range songs {
		fmt.Printf("Added: %s (id=%d)\n", song.Name, song.ID)
	}
	fmt.Printf("\nAdded %d songs\n", len(songs))
}

func runRecognize(ctx context.Context, app *eureka.Eureka, path string) {
	result, err := app.Identify(ctx, path)
	if err != nil {
		fail(err)
	}
	printMatch(result)
}

func runMicrophone(ctx context.Context, app *eureka.Eureka) {
	result, err := app.IdentifyMicrophone(ctx)
	if err != nil {
		fail(err)
	}
	printMatch(result)
}

func printMatch(result *match.Result) {
	if result == nil {
		fmt.Println("No match found")
		return
	}
	fmt.Printf("Match: %s by %s\n", result.SongName, result.Artist)
	fmt.Printf("Confidence: %.1f%%\n", result.Confidence*100)
	fmt.Printf("Aligned matches: %d\n", result.AlignedMatches)
}

func runList(ctx context.Context, app *eureka.Eureka) {
	songs, err := app.List(ctx)
	if err != nil {
		fail(err)
	}
	if len(songs) == 0 {
		fmt.Println("No songs in database")
		return
	}
	for _, song := range songs {
		fmt.Printf("  %d: %s by %s\n", song.ID, song.Name, song.Artist)
	}

	nSongs, nFingerprints, err := app.Counts(ctx)
	if err != nil {
		fail(err)
	}
	fmt.Printf("\nTotal: %d songs, %d fingerprints\n", nSongs, nFingerprints)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
