package usecase

import (
	"bufio"
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/pqc"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
)

const (
	maxSourceFileSize = 1 << 20
	maxSnippetLength  = 200
	binarySniffSize   = 8000
)

var skippedDirs = map[string]struct{}{
	".git":         {},
	"vendor":       {},
	"node_modules": {},
}

func newAsset(alg pqc.Algorithm, path string, line int, snippet string, source model.AssetSource) *model.CryptoAsset {
	return &model.CryptoAsset{
		Algorithm:      alg.Name,
		Primitive:      alg.Primitive,
		QuantumSafety:  alg.Safety,
		Recommendation: alg.Recommendation,
		Path:           path,
		Line:           line,
		Snippet:        truncateSnippet(snippet),
		Source:         source,
	}
}

// truncateSnippet keeps at most maxSnippetLength bytes of valid UTF-8, cutting at a rune
// boundary. Firestore rejects strings that are not valid UTF-8.
func truncateSnippet(s string) string {
	s = strings.ToValidUTF8(strings.TrimSpace(s), "")
	if len(s) <= maxSnippetLength {
		return s
	}
	end := maxSnippetLength
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}

// findingAlgorithm decides which algorithm a finding is about. The metadata algorithm is
// resolved first, then the rule ID and message. A metadata name found in neither way is
// kept as an unknown algorithm.
func findingAlgorithm(f *model.Finding) (pqc.Algorithm, bool) {
	if f.Metadata.Algorithm != "" {
		if alg, ok := pqc.Resolve(f.Metadata.Algorithm); ok {
			return alg, true
		}
	}
	if m, ok := pqc.FindFirst(f.RuleID + " " + f.Message); ok {
		return m.Algorithm, true
	}
	if f.Metadata.Algorithm != "" {
		return pqc.Classify(f.Metadata.Algorithm), true
	}
	return pqc.Algorithm{}, false
}

// ClassifyFindings derives one asset per finding that names an algorithm.
func ClassifyFindings(findings []*model.Finding) []*model.CryptoAsset {
	var assets []*model.CryptoAsset
	for _, f := range findings {
		alg, ok := findingAlgorithm(f)
		if !ok {
			continue
		}

		asset := newAsset(alg, f.Path, f.StartLine, f.Snippet, model.AssetSourceFinding)
		asset.RuleID = f.RuleID
		assets = append(assets, asset)
	}

	return MergeAssets(assets)
}

// ClassifySource scans every text file under root line by line and reports each dictionary
// match. Unreadable files are skipped.
func ClassifySource(ctx context.Context, root string) ([]*model.CryptoAsset, error) {
	var assets []*model.CryptoAsset

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logging.From(ctx).Debug("skip unreadable path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if _, skip := skippedDirs[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() >= maxSourceFileSize {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		found, err := scanSourceFile(path, filepath.ToSlash(rel))
		if err != nil {
			logging.From(ctx).Debug("skip source file", "path", rel, "error", err)
			return nil
		}
		assets = append(assets, found...)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(types.ErrClassification, "failed to walk workspace",
			goerr.V("root", root),
			goerr.V("error", err.Error()),
		)
	}

	return MergeAssets(assets), nil
}

func scanSourceFile(path, rel string) ([]*model.CryptoAsset, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	head := data
	if len(head) > binarySniffSize {
		head = head[:binarySniffSize]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return nil, nil
	}

	var assets []*model.CryptoAsset
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxSourceFileSize)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		for _, m := range pqc.FindAll(line) {
			assets = append(assets, newAsset(m.Algorithm, rel, lineNo, line, model.AssetSourcePattern))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return assets, nil
}

// MergeAssets deduplicates assets by (algorithm, path, line), keeping the first occurrence,
// and sorts them by path, line and algorithm.
func MergeAssets(groups ...[]*model.CryptoAsset) []*model.CryptoAsset {
	seen := make(map[model.AssetKey]struct{})
	merged := []*model.CryptoAsset{}

	for _, group := range groups {
		for _, a := range group {
			if _, ok := seen[a.Key()]; ok {
				continue
			}
			seen[a.Key()] = struct{}{}
			merged = append(merged, a)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Algorithm < b.Algorithm
	})

	return merged
}
