// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/inspect/internal/commands"
	"github.com/temirov/inspect/internal/config"
	"github.com/temirov/inspect/internal/output"
	"github.com/temirov/inspect/internal/services/clipboard"
	"github.com/temirov/inspect/internal/tokenizer"
	"github.com/temirov/inspect/internal/types"
	"github.com/temirov/inspect/internal/utils"
)

const (
	rootUse              = "inspect [paths...]"
	rootShortDescription = "walk filesystem paths and export the filtered tree"
	rootLongDescription  = `inspect walks a set of files and directories, builds a filtered tree,
optionally inlines file contents, and serializes the result.
Use --format to select xml, json, compact, or show output.`
	rootUsageExample = `  # Export the current project as XML, reading Python sources
  inspect . -e py

  # JSON dump with metadata, skipping node_modules
  inspect src --format json --add-metadata --ignore-dir node_modules

  # Show the last 20 lines of every log file
  inspect "*.log" --format show --read-all -t 20`

	formatFlagName          = "format"
	outputFlagName          = "output"
	quietFlagName           = "quiet"
	versionFlagName         = "version"
	allFlagName             = "all"
	ignoreFlagName          = "ignore"
	ignoreDirectoryFlagName = "ignore-dir"
	maxDepthFlagName        = "max-depth"
	noGitignoreFlagName     = "no-gitignore"
	extensionFlagName       = "extension"
	readAllFlagName         = "read-all"
	metadataFlagName        = "add-metadata"
	headFlagName            = "head"
	tailFlagName            = "tail"
	tokensFlagName          = "tokens"
	modelFlagName           = "model"
	copyFlagName            = "copy"
	configFlagName          = "config"

	formatFlagDescription          = "output format: xml, json, compact, or show"
	outputFlagDescription          = "write the result to a file instead of standard output"
	quietFlagDescription           = "suppress informational messages"
	versionFlagDescription         = "display application version"
	allFlagDescription             = "include hidden files and directories"
	ignoreFlagDescription          = "ignore files and directories matching the pattern (repeatable)"
	ignoreDirectoryFlagDescription = "always exclude directories with this exact name (repeatable)"
	maxDepthFlagDescription        = "maximum recursion depth, negative for unlimited"
	noGitignoreFlagDescription     = "do not apply .gitignore rules"
	extensionFlagDescription       = "read content of files with this extension (repeatable)"
	readAllFlagDescription         = "read content of every passing file, overriding --extension"
	metadataFlagDescription        = "collect file size and modification time"
	headFlagDescription            = "read only the first N lines of each file"
	tailFlagDescription            = "read only the last N lines of each file"
	tokensFlagDescription          = "annotate content-bearing files with token counts"
	modelFlagDescription           = "tokenizer model used for token counting"
	copyFlagDescription            = "copy the rendered output to the system clipboard"
	configFlagDescription          = "path to an explicit configuration file"

	versionTemplate          = "inspect version: %s\n"
	defaultPath              = "."
	defaultTokenizerModel    = "gpt-4o"
	unlimitedDepth           = -1
	outputFilePermissions    = 0o644
	invalidFormatFormat      = "invalid format '%s'; supported formats: %s"
	headTailExclusiveMessage = "--head and --tail are mutually exclusive"
	errorWriteOutputFormat   = "writing output to %s: %w"
	errorCopyOutputFormat    = "copying output to clipboard: %w"
	infoOutputWrittenFormat  = "results written to %s (%s)"
	infoTokenizerFormat      = "counting tokens with tokenizer %s"
)

// scanFlags holds every flag value of the inspect command.
type scanFlags struct {
	format            string
	outputPath        string
	quiet             bool
	showVersion       bool
	includeHidden     bool
	ignorePatterns    []string
	ignoreDirectories []string
	maxDepth          int
	noGitignore       bool
	extensions        []string
	readAll           bool
	addMetadata       bool
	headLines         int
	tailLines         int
	countTokens       bool
	tokenizerModel    string
	copyToClipboard   bool
	configPath        string
}

// Execute runs the inspect application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the single root Cobra command.
func createRootCommand() *cobra.Command {
	var flags scanFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return runScan(command, arguments, &flags)
		},
	}

	rootCommand.Flags().StringVarP(&flags.format, formatFlagName, "f", types.FormatXML, formatFlagDescription)
	rootCommand.Flags().StringVarP(&flags.outputPath, outputFlagName, "o", "", outputFlagDescription)
	rootCommand.Flags().BoolVarP(&flags.quiet, quietFlagName, "q", false, quietFlagDescription)
	rootCommand.Flags().BoolVar(&flags.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().BoolVarP(&flags.includeHidden, allFlagName, "a", false, allFlagDescription)
	rootCommand.Flags().StringArrayVarP(&flags.ignorePatterns, ignoreFlagName, "i", nil, ignoreFlagDescription)
	rootCommand.Flags().StringArrayVar(&flags.ignoreDirectories, ignoreDirectoryFlagName, nil, ignoreDirectoryFlagDescription)
	rootCommand.Flags().IntVar(&flags.maxDepth, maxDepthFlagName, unlimitedDepth, maxDepthFlagDescription)
	rootCommand.Flags().BoolVar(&flags.noGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	rootCommand.Flags().StringArrayVarP(&flags.extensions, extensionFlagName, "e", nil, extensionFlagDescription)
	rootCommand.Flags().BoolVar(&flags.readAll, readAllFlagName, false, readAllFlagDescription)
	rootCommand.Flags().BoolVar(&flags.addMetadata, metadataFlagName, false, metadataFlagDescription)
	rootCommand.Flags().IntVarP(&flags.headLines, headFlagName, "n", 0, headFlagDescription)
	rootCommand.Flags().IntVarP(&flags.tailLines, tailFlagName, "t", 0, tailFlagDescription)
	rootCommand.Flags().BoolVar(&flags.countTokens, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&flags.tokenizerModel, modelFlagName, defaultTokenizerModel, modelFlagDescription)
	rootCommand.Flags().BoolVar(&flags.copyToClipboard, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().StringVar(&flags.configPath, configFlagName, "", configFlagDescription)

	return rootCommand
}

// runScan validates the configuration, performs the scan, and dispatches the
// rendered document to the configured sinks.
func runScan(command *cobra.Command, arguments []string, flags *scanFlags) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf("unable to determine working directory: %w", workingDirectoryError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if configurationError != nil {
		return configurationError
	}
	applyConfigurationDefaults(command, flags, applicationConfiguration)

	if flags.headLines > 0 && flags.tailLines > 0 {
		return fmt.Errorf(headTailExclusiveMessage)
	}
	outputFormat := strings.ToLower(flags.format)
	if !utils.ContainsString(types.SupportedFormats, outputFormat) {
		return fmt.Errorf(invalidFormatFormat, flags.format, strings.Join(types.SupportedFormats, ", "))
	}

	loggerInstance, loggerError := utils.NewApplicationLogger(flags.quiet)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer loggerInstance.Sync()
	runLogger := loggerInstance.Sugar()

	var tokenCounter tokenizer.Counter
	if flags.countTokens {
		createdCounter, _, counterError := tokenizer.NewCounter(tokenizer.Config{Model: flags.tokenizerModel})
		if counterError != nil {
			return counterError
		}
		runLogger.Infof(infoTokenizerFormat, createdCounter.Name())
		tokenCounter = createdCounter
	}

	if len(arguments) == 0 {
		arguments = []string{defaultPath}
	}
	scanPaths := expandWildcardArguments(arguments)

	inspector := commands.NewInspector(commands.Options{
		IncludeHidden:     flags.includeHidden,
		IgnorePatterns:    flags.ignorePatterns,
		IgnoreDirectories: flags.ignoreDirectories,
		MaxDepth:          flags.maxDepth,
		UseGitignore:      !flags.noGitignore,
		CollectMetadata:   flags.addMetadata,
		Content: commands.ContentPolicy{
			ReadAll:    flags.readAll,
			Extensions: normalizeExtensions(flags.extensions),
			HeadLines:  flags.headLines,
			TailLines:  flags.tailLines,
		},
		TokenCounter: tokenCounter,
	}, runLogger)

	forest, runMetadata, inspectError := inspector.Inspect(scanPaths)
	if inspectError != nil {
		return inspectError
	}

	var rendered bytes.Buffer
	if renderError := output.Render(&rendered, outputFormat, forest, runMetadata); renderError != nil {
		return renderError
	}

	return dispatchOutput(rendered.String(), flags, runLogger)
}

// dispatchOutput delivers the rendered document to the file or stdout sink
// and, when requested, to the system clipboard in parallel.
func dispatchOutput(rendered string, flags *scanFlags, runLogger commands.Logger) error {
	var group errgroup.Group

	group.Go(func() error {
		if flags.outputPath != "" {
			if writeError := os.WriteFile(flags.outputPath, []byte(rendered), outputFilePermissions); writeError != nil {
				return fmt.Errorf(errorWriteOutputFormat, flags.outputPath, writeError)
			}
			runLogger.Infof(infoOutputWrittenFormat, flags.outputPath, utils.FormatFileSize(int64(len(rendered))))
			return nil
		}
		_, writeError := os.Stdout.WriteString(rendered)
		return writeError
	})

	if flags.copyToClipboard {
		clipboardService := clipboard.NewService()
		group.Go(func() error {
			if copyError := clipboardService.Copy(rendered); copyError != nil {
				return fmt.Errorf(errorCopyOutputFormat, copyError)
			}
			return nil
		})
	}

	return group.Wait()
}

// applyConfigurationDefaults overlays configuration file values onto flags
// the user did not set explicitly.
func applyConfigurationDefaults(command *cobra.Command, flags *scanFlags, configuration config.ApplicationConfiguration) {
	flagSet := command.Flags()

	if !flagSet.Changed(formatFlagName) && configuration.Format != "" {
		flags.format = configuration.Format
	}
	if !flagSet.Changed(allFlagName) && configuration.Hidden != nil {
		flags.includeHidden = *configuration.Hidden
	}
	if !flagSet.Changed(ignoreFlagName) && len(configuration.Ignore) > 0 {
		flags.ignorePatterns = configuration.Ignore
	}
	if !flagSet.Changed(ignoreDirectoryFlagName) && len(configuration.IgnoreDirectories) > 0 {
		flags.ignoreDirectories = configuration.IgnoreDirectories
	}
	if !flagSet.Changed(maxDepthFlagName) && configuration.MaxDepth != nil {
		flags.maxDepth = *configuration.MaxDepth
	}
	if !flagSet.Changed(noGitignoreFlagName) && configuration.UseGitignore != nil {
		flags.noGitignore = !*configuration.UseGitignore
	}
	if !flagSet.Changed(extensionFlagName) && len(configuration.Extensions) > 0 {
		flags.extensions = configuration.Extensions
	}
	if !flagSet.Changed(readAllFlagName) && configuration.ReadAll != nil {
		flags.readAll = *configuration.ReadAll
	}
	if !flagSet.Changed(metadataFlagName) && configuration.Metadata != nil {
		flags.addMetadata = *configuration.Metadata
	}
	if !flagSet.Changed(tokensFlagName) && configuration.Tokens.Enabled != nil {
		flags.countTokens = *configuration.Tokens.Enabled
	}
	if !flagSet.Changed(modelFlagName) && configuration.Tokens.Model != "" {
		flags.tokenizerModel = configuration.Tokens.Model
	}
	if !flagSet.Changed(copyFlagName) && configuration.Clipboard != nil {
		flags.copyToClipboard = *configuration.Clipboard
	}
}

// expandWildcardArguments resolves shell-style wildcard arguments into
// concrete paths. Arguments that match nothing are passed through verbatim so
// the scan can report them as missing.
func expandWildcardArguments(arguments []string) []string {
	var resolvedPaths []string
	for _, argument := range arguments {
		matches, globError := filepath.Glob(argument)
		if globError != nil || len(matches) == 0 {
			resolvedPaths = append(resolvedPaths, argument)
			continue
		}
		resolvedPaths = append(resolvedPaths, matches...)
	}
	return resolvedPaths
}

// normalizeExtensions converts the extension arguments into the allow-set
// consumed by the content policy, ensuring each carries a single leading dot.
func normalizeExtensions(extensions []string) map[string]struct{} {
	allowSet := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		trimmedExtension := strings.TrimSpace(extension)
		if trimmedExtension == "" {
			continue
		}
		allowSet["."+strings.TrimLeft(trimmedExtension, ".")] = struct{}{}
	}
	return allowSet
}
