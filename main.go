package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/DininduSenanayake/singlem/internal/util"
	"github.com/DininduSenanayake/singlem/logger"
	mydb "github.com/DininduSenanayake/singlem/pkg/db"
	"github.com/DininduSenanayake/singlem/pkg/jplace"
	"github.com/DininduSenanayake/singlem/pkg/otu"
	"github.com/DininduSenanayake/singlem/pkg/otutable"
	"github.com/DininduSenanayake/singlem/pkg/pipe"
	"github.com/DininduSenanayake/singlem/pkg/seqio"
	"github.com/DininduSenanayake/singlem/pkg/taxonomy"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "modernc.org/sqlite"
)

// The runner is env-configured on purpose: the core takes every tunable as
// an explicit parameter, and everything here is glue around one
// (sample, gene) unit of work whose inputs were produced by the external
// search/alignment/placement tools.
//
//	SINGLEM_PROTEIN_ALIGNMENT  aligned protein FASTA (A2M) [required]
//	SINGLEM_NUCLEOTIDES        nucleotide read FASTA       [required]
//	SINGLEM_TAXONOMY           read -> taxonomy TSV
//	SINGLEM_BEST_HIT_TABLE     similarity-search hit table (first-hit mode)
//	SINGLEM_SAMPLE             sample name                 [required]
//	SINGLEM_GENE               marker gene name            [required]
//	SINGLEM_WINDOW_POSITION    anchor match-column rank    [required]
//	SINGLEM_WINDOW_WIDTH       window width, default 20
//	SINGLEM_INCLUDE_INSERTS    "true" to keep insert columns
//	SINGLEM_KNOWN_OTU_TABLES   colon-separated known OTU table paths
//	SINGLEM_KNOWN_OTU_DB       known OTU sqlite database path
//	SINGLEM_OTU_TABLE          output OTU table path       [required]
//	SINGLEM_ARCHIVE_OTU_TABLE  output archive JSON path
//	SINGLEM_OUTPUT_EXTRAS      "true" for the detail columns
//	SINGLEM_JPLACE_IN          input placement document
//	SINGLEM_JPLACE_OUT         rewritten placement document path
func main() {

	// Establish logger
	VERSION := "0.1.0"
	LOG_LEVEL := zapcore.InfoLevel

	if err := logger.InitLogger(LOG_LEVEL); err != nil {
		panic(err)
	}

	// Try load env
	dotenvErr := godotenv.Load()

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	logger.Info("Start:", zap.String("Version", VERSION))

	ctx := context.Background()

	alignment_path := mustEnv("SINGLEM_PROTEIN_ALIGNMENT")
	nucleotides_path := mustEnv("SINGLEM_NUCLEOTIDES")
	sample := mustEnv("SINGLEM_SAMPLE")
	gene := mustEnv("SINGLEM_GENE")
	otu_table_path := mustEnv("SINGLEM_OTU_TABLE")
	anchor := mustEnvInt("SINGLEM_WINDOW_POSITION")

	window := otu.WindowSpec{
		AnchorPosition: anchor,
		Width:          otu.DefaultWindowWidth,
		IncludeInserts: boolEnv("SINGLEM_INCLUDE_INSERTS"),
	}
	if w := os.Getenv("SINGLEM_WINDOW_WIDTH"); w != "" {
		width, err := strconv.Atoi(w)
		if err != nil {
			logger.Fatal("SINGLEM_WINDOW_WIDTH is not a number", zap.String("value", w))
		}
		window.Width = width
	}

	alignment := readAlignment(alignment_path)
	nucleotides := readNucleotides(nucleotides_path)
	taxonomies, use_first := readTaxonomies()

	opts := pipe.Options{
		Gene:             gene,
		Sample:           sample,
		Window:           window,
		UseFirstTaxonomy: use_first,
		Known:            openKnownSource(ctx),
	}

	result, err := pipe.Process(ctx, alignment, nucleotides, taxonomies, opts)
	if err != nil {
		logger.Fatal("Processing failed", zap.Error(err))
	}
	logger.Info("Processed sample", zap.String("sample", sample),
		zap.String("gene", gene), zap.Int("otus", len(result.Rows)))

	table := &otutable.Table{}
	table.Append(result.Rows...)
	writeOtuTable(table, otu_table_path)

	if archive_path := os.Getenv("SINGLEM_ARCHIVE_OTU_TABLE"); archive_path != "" {
		writeArchive(table, archive_path)
	}

	if jplace_in := os.Getenv("SINGLEM_JPLACE_IN"); jplace_in != "" {
		rewriteJplace(result, jplace_in, mustEnv("SINGLEM_JPLACE_OUT"))
	}

	logger.Info("Finished")
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.Fatal("Required environment variable is not set", zap.String("key", key))
	}
	return value
}

func mustEnvInt(key string) int {
	value, err := strconv.Atoi(mustEnv(key))
	if err != nil {
		logger.Fatal("Environment variable is not a number", zap.String("key", key))
	}
	return value
}

func boolEnv(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

func readAlignment(path string) []seqio.AlignedProteinSequence {
	f, err := os.Open(path)
	if err != nil {
		logger.Fatal("Cannot open protein alignment", zap.Error(err))
	}
	defer f.Close()

	alignment, err := seqio.ReadProteinAlignment(f)
	if err != nil {
		logger.Fatal("Cannot parse protein alignment", zap.Error(err))
	}
	return alignment
}

func readNucleotides(path string) []seqio.NucleotideRecord {
	if !util.FileNonEmpty(path) {
		// The search stage writes empty hit files for samples with no
		// matches; that means zero OTUs, not a failure.
		logger.Warn("Nucleotide fasta is missing or empty", zap.String("path", path))
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Fatal("Cannot open nucleotide fasta", zap.Error(err))
	}
	defer f.Close()

	records, err := seqio.ReadNucleotideSequences(f)
	if err != nil {
		logger.Fatal("Cannot parse nucleotide fasta", zap.Error(err))
	}
	return records
}

// readTaxonomies picks the taxonomy source: a read_tax TSV (consensus mode)
// or a best-hit table (first-hit mode). Neither being set is allowed; all
// OTUs then come out unannotated.
func readTaxonomies() (map[string]string, bool) {
	if path := os.Getenv("SINGLEM_TAXONOMY"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			logger.Fatal("Cannot open taxonomy file", zap.Error(err))
		}
		defer f.Close()
		taxonomies, err := taxonomy.ReadTaxonomyFile(f)
		if err != nil {
			logger.Fatal("Cannot parse taxonomy file", zap.Error(err))
		}
		return taxonomies, false
	}

	if path := os.Getenv("SINGLEM_BEST_HIT_TABLE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			logger.Fatal("Cannot open best hit table", zap.Error(err))
		}
		defer f.Close()
		taxonomies, err := taxonomy.ReadBestHitTable(f)
		if err != nil {
			logger.Fatal("Cannot parse best hit table", zap.Error(err))
		}
		return taxonomies, true
	}

	logger.Warn("No taxonomy source configured, OTUs will be unannotated")
	return nil, false
}

func openKnownSource(ctx context.Context) mydb.KnownTaxonomySource {
	if db_path := os.Getenv("SINGLEM_KNOWN_OTU_DB"); db_path != "" {
		known, err := mydb.OpenKnownOtuDB(ctx, db_path)
		if err != nil {
			logger.Fatal("Cannot open known OTU database", zap.Error(err))
		}
		logger.Info("Open known OTU database on", zap.String("DB_LOC", db_path))
		return known
	}

	table_paths := os.Getenv("SINGLEM_KNOWN_OTU_TABLES")
	if table_paths == "" {
		return nil
	}
	logger.Info("Parsing known taxonomy OTU tables")
	known := mydb.NewKnownOtuTable()
	for _, path := range strings.Split(table_paths, ":") {
		f, err := os.Open(path)
		if err != nil {
			logger.Fatal("Cannot open known OTU table", zap.Error(err))
		}
		if err := known.ParseOtuTable(f); err != nil {
			f.Close()
			logger.Fatal("Cannot parse known OTU table", zap.Error(err))
		}
		f.Close()
	}
	logger.Info("Loaded known OTUs", zap.Int("sequences", known.Len()))
	return known
}

// ensureOutputDir fails early, before any processing output is lost to a
// typo'd destination path.
func ensureOutputDir(path string) {
	dir := filepath.Dir(path)
	if !util.DirExists(dir) {
		logger.Fatal("Output directory does not exist", zap.String("dir", dir))
	}
}

func writeOtuTable(table *otutable.Table, path string) {
	ensureOutputDir(path)

	f, err := os.Create(path)
	if err != nil {
		logger.Fatal("Cannot create OTU table", zap.Error(err))
	}
	defer f.Close()

	if err := table.Write(f, boolEnv("SINGLEM_OUTPUT_EXTRAS")); err != nil {
		logger.Fatal("Cannot write OTU table", zap.Error(err))
	}
}

func writeArchive(table *otutable.Table, path string) {
	ensureOutputDir(path)

	f, err := os.Create(path)
	if err != nil {
		logger.Fatal("Cannot create archive OTU table", zap.Error(err))
	}
	defer f.Close()

	if err := otutable.NewArchive(table).Write(f); err != nil {
		logger.Fatal("Cannot write archive OTU table", zap.Error(err))
	}
}

func rewriteJplace(result *pipe.Result, in_path, out_path string) {
	ensureOutputDir(out_path)

	data, err := os.ReadFile(in_path)
	if err != nil {
		logger.Fatal("Cannot read placement document", zap.Error(err))
	}
	doc, err := jplace.Parse(data)
	if err != nil {
		logger.Fatal("Cannot parse placement document", zap.Error(err))
	}

	rewritten, err := result.RewritePlacements(doc)
	if err != nil {
		logger.Fatal("Cannot rewrite placement document", zap.Error(err))
	}

	out, err := rewritten.MarshalJSON()
	if err != nil {
		logger.Fatal("Cannot serialize placement document", zap.Error(err))
	}
	if err := os.WriteFile(out_path, out, 0o644); err != nil {
		logger.Fatal("Cannot write placement document", zap.Error(err))
	}
}
