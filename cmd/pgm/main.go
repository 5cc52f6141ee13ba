// Command pgm converts power grid datasets between the human editable
// JSON form and columnar interchange files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FrankKr/power-grid-model/pkg/compression"
	"github.com/FrankKr/power-grid-model/pkg/config"
	"github.com/FrankKr/power-grid-model/pkg/convert"
	"github.com/FrankKr/power-grid-model/pkg/dataset"
	"github.com/FrankKr/power-grid-model/pkg/errors"
	"github.com/FrankKr/power-grid-model/pkg/formats/columnar"
	"github.com/FrankKr/power-grid-model/pkg/json"
	"github.com/FrankKr/power-grid-model/pkg/jsonio"
	"github.com/FrankKr/power-grid-model/pkg/logger"
	"github.com/FrankKr/power-grid-model/pkg/meta"
	"github.com/FrankKr/power-grid-model/pkg/models"
)

var version = "0.1.0"

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath  string
		logLevel    string
		logEncoding string
	)

	root := &cobra.Command{
		Use:   "pgm",
		Short: "Power grid dataset converter",
		Long: `pgm converts power grid datasets between the human editable JSON form
and columnar interchange files (Arrow IPC, Parquet, Avro OCF).

JSON files whose extension names a compression algorithm (.gz, .zst, .lz4)
are compressed and decompressed transparently. Columnar files hold one
component each; a directory of them forms a dataset.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a configuration file (YAML, or JSON with a .json extension)")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&logEncoding, "log-encoding", "", "Log output format (json, console)")

	// Command line flags win over values from the configuration file.
	loadConfig := func() (*config.Config, error) {
		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if logEncoding != "" {
			cfg.Logging.Encoding = logEncoding
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	root.AddCommand(
		newConvertCommand(loadConfig),
		newValidateCommand(loadConfig),
		newComponentsCommand(),
		newVersionCommand(),
	)
	return root
}

func newConvertCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var (
		dataType  string
		indent    int
		compact   bool
		format    string
		extraInfo string
	)

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a dataset between JSON and columnar files",
		Long: `Convert reads the dataset at <input> and writes it to <output>. The file
extensions pick the formats on both sides:

  .json                        JSON, optionally compressed (.gz, .zst, .lz4)
  .arrow, .feather             Arrow IPC file, one component
  .parquet                     Parquet file, one component
  .avro                        Avro object container file, one component
  no extension or a directory  one columnar file per component (--format)

Columnar files hold single datasets only; batch data stays in JSON.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("data-type") {
				cfg.Conversion.DataType = dataType
			}
			if flags.Changed("indent") {
				cfg.Conversion.Indent = indent
			}
			if flags.Changed("compact") {
				cfg.Conversion.Compact = compact
			}
			if flags.Changed("format") {
				cfg.Files.Format = format
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runConvert(cfg, args[0], args[1], extraInfo)
		},
	}

	cmd.Flags().StringVarP(&dataType, "data-type", "t", meta.DataTypeInput,
		"Dataset type of both files (input, update, sym_output, asym_output)")
	cmd.Flags().IntVar(&indent, "indent", 2,
		"Spaces per nesting level in JSON output, 0 writes minified JSON")
	cmd.Flags().BoolVar(&compact, "compact", false,
		"Keep each record on one line in indented JSON output")
	cmd.Flags().StringVar(&format, "format", string(columnar.Parquet),
		"Columnar format for directory output (arrow, parquet, avro)")
	cmd.Flags().StringVar(&extraInfo, "extra-info", "",
		"JSON file with extra info to inject into the output, keyed by object id")
	return cmd
}

func runConvert(cfg *config.Config, input, output, extraInfoPath string) error {
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	level, err := compression.ParseLevel(cfg.Files.CompressionLevel)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "compression level")
	}
	reg := meta.NewRegistry(log)
	conv := convert.New(reg, log)
	fio := jsonio.NewWithLevel(conv, log, level)

	var extraInfo interface{}
	if extraInfoPath != "" {
		if extraInfo, err = readExtraInfo(extraInfoPath); err != nil {
			return err
		}
	}

	start := time.Now()
	ds, err := readDataset(fio, reg, cfg, input)
	if err != nil {
		return err
	}
	if err := writeDataset(fio, cfg, output, ds, extraInfo); err != nil {
		return err
	}

	log.Info("conversion complete",
		zap.String("input", input),
		zap.String("output", output),
		zap.String("data_type", cfg.Conversion.DataType),
		zap.Int("components", len(ds)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// readDataset routes by the shape of the input path: a directory is a set
// of columnar component files, a file with a columnar extension is a single
// component, anything else goes through the JSON importer.
func readDataset(fio *jsonio.FileIO, reg *meta.Registry, cfg *config.Config, input string) (dataset.Dataset, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("opening %s", input))
	}
	if info.IsDir() {
		return readColumnarDir(reg, cfg.Conversion.DataType, input)
	}
	if format, ok := columnar.DetectFormat(input); ok {
		ds := dataset.Dataset{}
		if err := readColumnarFile(reg, cfg.Conversion.DataType, input, format, ds); err != nil {
			return nil, err
		}
		return ds, nil
	}
	return fio.Import(input, cfg.Conversion.DataType)
}

func readColumnarDir(reg *meta.Registry, dataType, dir string) (dataset.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("reading directory %s", dir))
	}
	ds := dataset.Dataset{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, ok := columnar.DetectFormat(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := readColumnarFile(reg, dataType, path, format, ds); err != nil {
			return nil, err
		}
	}
	if len(ds) == 0 {
		return nil, errors.Newf(errors.ErrorTypeFile, "no columnar files found in %s", dir)
	}
	return ds, nil
}

// readColumnarFile reads one component file into ds. The component name is
// the file name without its extension.
func readColumnarFile(reg *meta.Registry, dataType, path string, format columnar.Format, ds dataset.Dataset) error {
	name := filepath.Base(path)
	component := strings.TrimSuffix(name, filepath.Ext(name))

	schema, err := reg.Schema(dataType, component)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("opening %s", path))
	}
	defer file.Close()

	reader, err := columnar.NewReader(file, format, schema)
	if err != nil {
		return err
	}
	defer reader.Close()

	arr, err := reader.Read()
	if err != nil {
		return err
	}
	ds[component] = arr
	return nil
}

// writeDataset routes by the output path the same way readDataset does for
// the input. Columnar targets only accept single datasets and cannot carry
// extra info.
func writeDataset(fio *jsonio.FileIO, cfg *config.Config, output string, ds dataset.Dataset, extraInfo interface{}) error {
	format, columnarFile := columnar.DetectFormat(output)
	if columnarFile || filepath.Ext(output) == "" || isDir(output) {
		if extraInfo != nil {
			return errors.New(errors.ErrorTypeInvalidExtraInfoType,
				"extra info only travels in JSON output")
		}
		if !columnarFile {
			return writeColumnarDir(cfg, output, ds)
		}
		if len(ds) != 1 {
			return errors.Newf(errors.ErrorTypeInvalidDataFormat,
				"%s holds one component but the dataset has %d; write to a directory instead", output, len(ds))
		}
		component := sortedComponents(ds)[0]
		arr, err := singleArray(component, ds[component])
		if err != nil {
			return err
		}
		return writeColumnarFile(output, format, component, arr)
	}
	opts := jsonio.Options{
		Indent:    cfg.Conversion.Indent,
		Compact:   cfg.Conversion.Compact,
		ExtraInfo: extraInfo,
	}
	return fio.Export(output, ds, opts)
}

func writeColumnarDir(cfg *config.Config, dir string, ds dataset.Dataset) error {
	format, err := columnar.ParseFormat(cfg.Files.Format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("creating directory %s", dir))
	}
	for _, component := range sortedComponents(ds) {
		arr, err := singleArray(component, ds[component])
		if err != nil {
			return err
		}
		path := filepath.Join(dir, component+"."+string(format))
		if err := writeColumnarFile(path, format, component, arr); err != nil {
			return err
		}
	}
	return nil
}

func writeColumnarFile(path string, format columnar.Format, component string, arr *dataset.Array) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("creating %s", path))
	}
	writer, err := columnar.NewWriter(file, format, component, arr.Schema())
	if err != nil {
		file.Close()
		return err
	}
	if err := writer.Write(arr); err != nil {
		file.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("closing %s", path))
	}
	return nil
}

func singleArray(component string, value dataset.Value) (*dataset.Array, error) {
	arr, ok := value.(*dataset.Array)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeInvalidDataFormat,
			"component %q holds batch data; columnar files hold single datasets", component)
	}
	return arr, nil
}

// readExtraInfo loads an extra info file: a JSON object keyed by object id,
// or a list of such objects paired with batch scenarios.
func readExtraInfo(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, fmt.Sprintf("reading extra info %s", path))
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInvalidDataFormat, "malformed extra info JSON")
	}
	switch v := raw.(type) {
	case map[string]interface{}:
		return extraInfoByID(v)
	case []interface{}:
		infos := make([]models.ExtraInfo, len(v))
		for i, elem := range v {
			obj, ok := elem.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeInvalidExtraInfoType,
					"extra info scenario %d is not an object", i)
			}
			info, err := extraInfoByID(obj)
			if err != nil {
				return nil, err
			}
			infos[i] = info
		}
		return infos, nil
	default:
		return nil, errors.New(errors.ErrorTypeInvalidExtraInfoType,
			"extra info should be either a list or an object")
	}
}

func extraInfoByID(obj map[string]interface{}) (models.ExtraInfo, error) {
	info := make(models.ExtraInfo, len(obj))
	for key, payload := range obj {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeInvalidExtraInfoType,
				"extra info key %q is not an object id", key)
		}
		info[id] = payload
	}
	return info, nil
}

func newValidateCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var dataType string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a dataset file parses against the component layouts",
		Long: `Validate reads the dataset at <file> and reports what it holds. A file
that references unknown components or attributes, or carries values of the
wrong type, fails with the first offending record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data-type") {
				cfg.Conversion.DataType = dataType
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := newLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer log.Sync()

			reg := meta.NewRegistry(log)
			conv := convert.New(reg, log)
			fio := jsonio.New(conv, log)

			ds, err := readDataset(fio, reg, cfg, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s: ok (%s data)\n", args[0], cfg.Conversion.DataType)
			for _, component := range sortedComponents(ds) {
				switch v := ds[component].(type) {
				case *dataset.Array:
					fmt.Printf("  %-24s %d records\n", component, v.Len())
				case *dataset.DenseBatch:
					fmt.Printf("  %-24s %d scenarios x %d records\n", component, v.BatchCount(), v.PerBatch())
				case *dataset.SparseBatch:
					fmt.Printf("  %-24s %d scenarios, %d records total\n", component, v.BatchCount(), v.Data().Len())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataType, "data-type", "t", meta.DataTypeInput,
		"Dataset type of the file (input, update, sym_output, asym_output)")
	return cmd
}

func newComponentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "components [data-type]",
		Short: "List the known components and their attributes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := meta.NewRegistry(zap.NewNop())

			dataTypes := reg.DataTypes()
			if len(args) == 1 {
				dataTypes = []string{args[0]}
			}
			for i, dt := range dataTypes {
				components, err := reg.Components(dt)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Println()
				}
				fmt.Printf("%s:\n", dt)
				for _, component := range components {
					schema, err := reg.Schema(dt, component)
					if err != nil {
						return err
					}
					fmt.Printf("  %-24s %s\n", component, describeAttributes(schema))
				}
			}
			return nil
		},
	}
}

func describeAttributes(schema *dataset.Schema) string {
	parts := make([]string, 0, schema.Len())
	for i := 0; i < schema.Len(); i++ {
		attr := schema.At(i)
		label := attr.Kind.String()
		if attr.Size > 1 {
			label = fmt.Sprintf("%sx%d", label, attr.Size)
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", attr.Name, label))
	}
	return strings.Join(parts, ", ")
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pgm v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	err := logger.Init(logger.Config{
		Level:       cfg.Level,
		Encoding:    cfg.Encoding,
		Development: cfg.Development,
	})
	if err != nil {
		return nil, err
	}
	return logger.Get(), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func sortedComponents(ds dataset.Dataset) []string {
	names := make([]string, 0, len(ds))
	for name := range ds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
