// Package commands contains the core traversal, filtering, and content
// collection logic behind the inspect command.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/inspect/internal/ignore"
	"github.com/temirov/inspect/internal/tokenizer"
	"github.com/temirov/inspect/internal/types"
	"github.com/temirov/inspect/internal/utils"
)

const (
	warningMissingPathFormat   = "path does not exist: %s"
	warningResolvePathFormat   = "unable to resolve path %s: %v"
	warningReadDirectoryFormat = "unable to fully read directory %s: %v"
	warningStatFormat          = "unable to stat %s: %v"
	warningTokenCountFormat    = "unable to count tokens for %s: %v"

	errorWorkingDirectoryFormat = "determining working directory: %w"
)

// Logger is the narrow logging surface the inspector needs. It is satisfied
// by *zap.SugaredLogger.
type Logger interface {
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// Options configures a scan. MaxDepth limits descent below the given depth
// when non-negative; a negative value means unlimited. IgnoreDirectories are
// exact directory names excluded wherever they occur. TokenCounter, when
// non-nil, annotates content-bearing file nodes with a token count.
type Options struct {
	IncludeHidden     bool
	IgnorePatterns    []string
	IgnoreDirectories []string
	MaxDepth          int
	UseGitignore      bool
	CollectMetadata   bool
	Content           ContentPolicy
	TokenCounter      tokenizer.Counter
}

// Inspector walks a set of scan roots and builds one merged, deterministic
// forest anchored at the invocation base directory. A single Inspect call
// owns all mutable state (the per-root ignore matcher and the directory-node
// cache); an Inspector performs no concurrent work.
type Inspector struct {
	options           Options
	ignoreDirectories map[string]struct{}
	loader            *ContentLoader
	logger            Logger
}

// NewInspector creates an Inspector for the provided options and logger.
func NewInspector(options Options, logger Logger) *Inspector {
	ignoreDirectories := make(map[string]struct{}, len(options.IgnoreDirectories))
	for _, directoryName := range options.IgnoreDirectories {
		ignoreDirectories[directoryName] = struct{}{}
	}
	return &Inspector{
		options:           options,
		ignoreDirectories: ignoreDirectories,
		loader:            NewContentLoader(options.Content, logger),
		logger:            logger,
	}
}

// Inspect scans the provided pre-resolved paths and returns the merged
// forest — the children of a virtual root representing the working directory —
// together with the run metadata the encoders render. Per-path failures are
// logged and skipped; only a failure to determine the working directory
// aborts the scan.
func (inspector *Inspector) Inspect(paths []string) ([]*types.TreeNode, types.RunMetadata, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return nil, types.RunMetadata{}, fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
	}
	baseDirectory := filepath.Clean(workingDirectory)

	rootNode := &types.TreeNode{
		Name:         ".",
		AbsolutePath: baseDirectory,
		RelativePath: ".",
		IsDirectory:  true,
	}
	directoryCache := map[string]*types.TreeNode{baseDirectory: rootNode}

	for _, inputPath := range paths {
		absolutePath, absoluteError := filepath.Abs(inputPath)
		if absoluteError != nil {
			inspector.logger.Warnf(warningResolvePathFormat, inputPath, absoluteError)
			continue
		}
		absolutePath = filepath.Clean(absolutePath)

		pathInformation, statError := os.Stat(absolutePath)
		if statError != nil {
			inspector.logger.Warnf(warningMissingPathFormat, absolutePath)
			continue
		}

		matcher := inspector.buildMatcher(absolutePath, pathInformation.IsDir())

		if pathInformation.IsDir() {
			inspector.spliceDirectory(absolutePath, baseDirectory, matcher, directoryCache)
		} else {
			inspector.spliceFile(absolutePath, baseDirectory, matcher, directoryCache)
		}
	}

	sortChildrenRecursive(rootNode)

	metadata := types.RunMetadata{
		AbsolutePath:   baseDirectory,
		RepositoryRoot: utils.FindGitRoot(baseDirectory),
	}
	return rootNode.Children, metadata, nil
}

// buildMatcher constructs the ignore matcher for one scan root. With
// gitignore processing enabled the matcher is anchored at the enclosing
// repository root when one exists, and global excludes plus the repository's
// own ignore file are layered in after the CLI-supplied patterns. With it
// disabled the matcher still honors the CLI patterns, anchored at the scan
// root itself (its parent for file roots).
func (inspector *Inspector) buildMatcher(absolutePath string, isDirectory bool) *ignore.Matcher {
	scopeRoot := absolutePath
	if !isDirectory {
		scopeRoot = filepath.Dir(absolutePath)
	}

	if !inspector.options.UseGitignore {
		return ignore.NewMatcher(scopeRoot, inspector.options.IgnorePatterns)
	}

	repositoryRoot := utils.FindGitRoot(absolutePath)
	matcherRoot := scopeRoot
	if repositoryRoot != "" {
		matcherRoot = repositoryRoot
	}
	matcher := ignore.NewMatcher(matcherRoot, inspector.options.IgnorePatterns)

	if globalBase, globalLines := utils.GlobalGitignore(); globalBase != "" {
		matcher.AddPatterns(globalBase, globalLines)
	}
	if repositoryRoot != "" {
		matcher.AddPatternsFromFile(filepath.Join(repositoryRoot, utils.GitIgnoreFileName))
	}
	return matcher
}

// spliceFile attaches a single scanned file under the virtual root,
// materializing its parent directory chain on demand.
func (inspector *Inspector) spliceFile(absolutePath string, baseDirectory string, matcher *ignore.Matcher, directoryCache map[string]*types.TreeNode) {
	if matcher.IsIgnored(absolutePath) {
		return
	}
	parentNode := inspector.ensureDirectory(filepath.Dir(absolutePath), baseDirectory, directoryCache)
	if childByAbsolutePath(parentNode, absolutePath) != nil {
		return
	}
	parentNode.Children = append(parentNode.Children, inspector.processFile(absolutePath, baseDirectory))
}

// spliceDirectory walks a scanned directory and merges the resulting subtree
// under the virtual root. An already-present directory node absorbs only the
// children it does not yet have; first-seen nodes win.
func (inspector *Inspector) spliceDirectory(absolutePath string, baseDirectory string, matcher *ignore.Matcher, directoryCache map[string]*types.TreeNode) {
	subtree := inspector.processDirectory(absolutePath, baseDirectory, matcher, 0)
	if subtree == nil {
		return
	}

	parentNode := inspector.ensureDirectory(filepath.Dir(absolutePath), baseDirectory, directoryCache)
	existingNode := childByAbsolutePath(parentNode, absolutePath)
	if existingNode == nil {
		parentNode.Children = append(parentNode.Children, subtree)
		registerDirectories(subtree, directoryCache)
		return
	}
	for _, newChild := range subtree.Children {
		if childByAbsolutePath(existingNode, newChild.AbsolutePath) != nil {
			continue
		}
		existingNode.Children = append(existingNode.Children, newChild)
		registerDirectories(newChild, directoryCache)
	}
}

// ensureDirectory lazily materializes the directory chain from baseDirectory
// down to directoryPath, memoized by absolute path so unrelated sibling
// directories are never created. Paths outside the base directory anchor at
// the virtual root.
func (inspector *Inspector) ensureDirectory(directoryPath string, baseDirectory string, directoryCache map[string]*types.TreeNode) *types.TreeNode {
	if cachedNode, exists := directoryCache[directoryPath]; exists {
		return cachedNode
	}
	if !utils.IsPathWithin(directoryPath, baseDirectory) {
		return directoryCache[baseDirectory]
	}

	parentNode := inspector.ensureDirectory(filepath.Dir(directoryPath), baseDirectory, directoryCache)

	directoryNode := &types.TreeNode{
		Name:         filepath.Base(directoryPath),
		AbsolutePath: directoryPath,
		RelativePath: utils.RelativePathOrSelf(directoryPath, baseDirectory),
		IsDirectory:  true,
	}
	directoryCache[directoryPath] = directoryNode
	parentNode.Children = append(parentNode.Children, directoryNode)
	return directoryNode
}

// processDirectory recursively walks one directory, applying the depth
// limit, the hidden-entry policy, the directory blocklist, and the ignore
// matcher. Local ignore files encountered on the way down are layered into
// the shared matcher; their base-path scoping restricts where they apply.
// Listing failures keep the directory with whatever children were gathered.
func (inspector *Inspector) processDirectory(directoryPath string, baseDirectory string, matcher *ignore.Matcher, depth int) *types.TreeNode {
	if inspector.options.MaxDepth >= 0 && depth > inspector.options.MaxDepth {
		return nil
	}
	if matcher.IsIgnored(directoryPath) {
		return nil
	}

	if inspector.options.UseGitignore {
		matcher.AddPatternsFromFile(filepath.Join(directoryPath, utils.GitIgnoreFileName))
	}

	directoryNode := &types.TreeNode{
		Name:         filepath.Base(directoryPath),
		AbsolutePath: directoryPath,
		RelativePath: utils.RelativePathOrSelf(directoryPath, baseDirectory),
		IsDirectory:  true,
	}
	if inspector.options.CollectMetadata {
		inspector.applyMetadata(directoryNode, directoryPath)
	}

	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		inspector.logger.Warnf(warningReadDirectoryFormat, directoryPath, readDirectoryError)
	}

	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if !inspector.options.IncludeHidden && strings.HasPrefix(entryName, ".") && entryName != utils.GitIgnoreFileName {
			continue
		}
		if directoryEntry.IsDir() {
			if _, blocked := inspector.ignoreDirectories[entryName]; blocked {
				continue
			}
		}

		childPath := filepath.Join(directoryPath, entryName)
		if matcher.IsIgnored(childPath) {
			continue
		}

		if directoryEntry.IsDir() {
			childNode := inspector.processDirectory(childPath, baseDirectory, matcher, depth+1)
			if childNode != nil {
				directoryNode.Children = append(directoryNode.Children, childNode)
			}
		} else {
			directoryNode.Children = append(directoryNode.Children, inspector.processFile(childPath, baseDirectory))
		}
	}

	return directoryNode
}

// processFile builds the node for one file, collecting metadata and content
// according to the configured policies. Stat failures leave the metadata
// fields absent; the node is still produced.
func (inspector *Inspector) processFile(filePath string, baseDirectory string) *types.TreeNode {
	fileNode := &types.TreeNode{
		Name:         filepath.Base(filePath),
		AbsolutePath: filePath,
		RelativePath: utils.RelativePathOrSelf(filePath, baseDirectory),
		IsDirectory:  false,
	}
	if inspector.options.CollectMetadata {
		inspector.applyMetadata(fileNode, filePath)
	}

	if inspector.loader.ShouldRead(filePath) {
		fileNode.Content = inspector.loader.Load(filePath)
		if fileNode.Content != nil && inspector.options.TokenCounter != nil {
			tokenCount, tokenError := inspector.options.TokenCounter.CountString(*fileNode.Content)
			if tokenError != nil {
				inspector.logger.Warnf(warningTokenCountFormat, filePath, tokenError)
			} else {
				fileNode.Tokens = &tokenCount
			}
		}
	}

	return fileNode
}

// applyMetadata stores size and modification time on the node, leaving both
// absent when the stat call fails.
func (inspector *Inspector) applyMetadata(node *types.TreeNode, nodePath string) {
	fileInformation, statError := os.Stat(nodePath)
	if statError != nil {
		inspector.logger.Warnf(warningStatFormat, nodePath, statError)
		return
	}
	sizeBytes := fileInformation.Size()
	node.Size = &sizeBytes
	modifiedTimestamp := utils.FormatModifiedTime(fileInformation.ModTime())
	node.Modified = &modifiedTimestamp
}

// childByAbsolutePath returns the existing child with the given absolute
// path, or nil.
func childByAbsolutePath(parentNode *types.TreeNode, absolutePath string) *types.TreeNode {
	for _, childNode := range parentNode.Children {
		if childNode.AbsolutePath == absolutePath {
			return childNode
		}
	}
	return nil
}

// registerDirectories memoizes every directory node of a spliced subtree so
// later scan roots merge into the existing nodes instead of duplicating them.
func registerDirectories(node *types.TreeNode, directoryCache map[string]*types.TreeNode) {
	if !node.IsDirectory {
		return
	}
	directoryCache[node.AbsolutePath] = node
	for _, childNode := range node.Children {
		registerDirectories(childNode, directoryCache)
	}
}

// sortChildrenRecursive re-applies the forest ordering invariant: directories
// before files, then case-insensitive name ascending, throughout the tree.
func sortChildrenRecursive(node *types.TreeNode) {
	if !node.IsDirectory {
		return
	}
	sort.SliceStable(node.Children, func(firstIndex, secondIndex int) bool {
		firstChild, secondChild := node.Children[firstIndex], node.Children[secondIndex]
		if firstChild.IsDirectory != secondChild.IsDirectory {
			return firstChild.IsDirectory
		}
		return strings.ToLower(firstChild.Name) < strings.ToLower(secondChild.Name)
	})
	for _, childNode := range node.Children {
		sortChildrenRecursive(childNode)
	}
}
