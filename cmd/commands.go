// file: cmd/commands.go
// version: 1.0.0
// guid: 1d3f5b7c-9e1a-4b3d-8c6e-2f4a6b8c0d2e

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	ulid "github.com/oklog/ulid/v2"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/librorank/librorank/internal/backup"
	"github.com/librorank/librorank/internal/catalog"
	"github.com/librorank/librorank/internal/config"
	"github.com/librorank/librorank/internal/database"
	"github.com/librorank/librorank/internal/library"
	"github.com/librorank/librorank/internal/resolve"
)

func newGoogleBooksClient() *catalog.GoogleBooksClient {
	if config.AppConfig.GoogleBooksBaseURL != "" {
		return catalog.NewGoogleBooksClientWithBaseURL(config.AppConfig.GoogleBooksBaseURL)
	}
	return catalog.NewGoogleBooksClient()
}

func newOpenLibraryClient() *catalog.OpenLibraryClient {
	if config.AppConfig.OpenLibraryBaseURL != "" {
		return catalog.NewOpenLibraryClientWithBaseURL(config.AppConfig.OpenLibraryBaseURL)
	}
	return catalog.NewOpenLibraryClient()
}

func openLibraryFile() (*library.Library, error) {
	lib, err := library.Open(config.AppConfig.LibraryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, nil
}

// importCmd ingests a raw reading-app export into the library.
var importCmd = &cobra.Command{
	Use:   "import <export.csv>",
	Short: "Import a StoryGraph-style CSV export",
	Long: `Import a raw reading-app export: keeps read and currently-reading
entries, fills missing ratings with the shelf mean, and assigns ids to
entries without an ISBN.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Best effort: keep a snapshot of whatever the import replaces.
		if _, err := backup.CreateSnapshot(config.AppConfig.LibraryPath, "", backupConfig()); err != nil {
			fmt.Printf("Skipping pre-import snapshot: %v\n", err)
		}

		lib, err := openLibraryFile()
		if err != nil {
			return err
		}
		n, err := lib.ImportCSV(args[0])
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if err := lib.Save(); err != nil {
			return fmt.Errorf("failed to save library: %w", err)
		}
		fmt.Printf("Imported %d books into %s\n", n, config.AppConfig.LibraryPath)
		return nil
	},
}

// enrichCmd resolves every library entry against Google Books.
var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Resolve library entries against Google Books",
	Long: `Look up each library entry on Google Books, keep the best-scoring
candidate per title, and persist the normalized records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		lib, err := openLibraryFile()
		if err != nil {
			return err
		}
		books := lib.Books()
		if len(books) == 0 {
			fmt.Println("Library is empty, nothing to enrich.")
			return nil
		}

		resolver := resolve.NewResolver(newGoogleBooksClient(), database.GlobalStore)

		bar := progressbar.Default(int64(len(books)), "enriching")
		var accepted, noMatch, failed int
		for _, b := range books {
			_, err := resolver.Resolve(cmd.Context(), b.Title, b.Authors)
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, resolve.ErrNoMatch):
				noMatch++
			default:
				failed++
			}
			bar.Add(1)
		}

		fmt.Printf("Enriched %d books: %d resolved, %d no match, %d failed\n",
			len(books), accepted, noMatch, failed)
		return nil
	},
}

// searchCmd runs a screened Google Books discovery query.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Google Books for discovery candidates",
	Long: `Search Google Books, screen out short, non-English and off-title
hits, collapse duplicate editions, and print the surviving records.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxResults, _ := cmd.Flags().GetInt("max-results")
		genre, _ := cmd.Flags().GetString("genre")

		client := newGoogleBooksClient()
		volumes, err := client.Search(cmd.Context(), args[0], "", maxResults)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		screened := catalog.ScreenVolumes(volumes, args[0])
		records := make([]catalog.Record, 0, len(screened))
		for _, v := range screened {
			records = append(records, resolve.NormalizeVolume(v))
		}
		records = resolve.Deduplicate(records)
		if genre != "" {
			records = catalog.FilterByGenre(records, genre)
		}

		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		fmt.Fprintf(os.Stderr, "%d candidates after screening and dedup\n", len(records))
		return nil
	},
}

// rawBook is the on-disk shape of one scraped Open Library hit.
type rawBook struct {
	BookID       string   `json:"book_id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	AuthorKey    string   `json:"author_key"`
	Year         int      `json:"year,omitempty"`
	ISBN         string   `json:"isbn,omitempty"`
	Subjects     []string `json:"subjects"`
	EditionCount int      `json:"edition_count"`
	RawSource    string   `json:"raw_source"`
}

func firstOrEmpty(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

// discoverCmd scrapes Open Library search hits into raw JSON files.
var discoverCmd = &cobra.Command{
	Use:   "discover <query>",
	Short: "Scrape Open Library search hits to the data directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client := newOpenLibraryClient()
		docs, err := client.Search(cmd.Context(), args[0], limit)
		if err != nil {
			return fmt.Errorf("discover failed: %w", err)
		}

		outDir := filepath.Join(config.AppConfig.DataDir, "raw", "books")
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", outDir, err)
		}

		for _, doc := range docs {
			book := rawBook{
				BookID:       ulid.Make().String(),
				Title:        doc.Title,
				Author:       firstOrEmpty(doc.AuthorName),
				AuthorKey:    firstOrEmpty(doc.AuthorKey),
				Year:         doc.FirstPublishYear,
				ISBN:         firstOrEmpty(doc.ISBN),
				Subjects:     doc.Subject,
				EditionCount: doc.EditionCount,
				RawSource:    "openlibrary",
			}
			data, err := json.MarshalIndent(book, "", "  ")
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, book.BookID+".json")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}

		fmt.Printf("Saved %d raw books to %s\n", len(docs), outDir)
		return nil
	},
}

// recommendCmd prints tonight's pick from the to-read shelf.
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Pick tonight's read from the to-read shelf",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibraryFile()
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		ranked, pick, ok := lib.Recommend(rng)
		if !ok {
			return fmt.Errorf("nothing on the to-read shelf")
		}

		fmt.Println("Recommended from TBR:")
		top := ranked
		if len(top) > 5 {
			top = top[:5]
		}
		for i, s := range top {
			fmt.Printf("  %d. %s - %s (%.3f)\n", i+1, s.Book.Title, s.Book.Authors, s.Score)
		}
		fmt.Printf("\nTonight you read: %s - %s\n", pick.Book.Title, pick.Book.Authors)
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("max-results", 10, "maximum Google Books results to fetch")
	searchCmd.Flags().String("genre", "", "keep only candidates whose categories match this genre")
	discoverCmd.Flags().Int("limit", 20, "maximum Open Library hits to scrape")
}
