package photo

import (
	"fmt"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
)

// SimilarPair is two images whose perceptual hashes are within a threshold.
type SimilarPair struct {
	A, B     string
	Distance int
}

// CalculatePerceptualHash decodes an image, honouring its EXIF orientation,
// and calculates its perceptual hash
func CalculatePerceptualHash(path string) (*goimagehash.ImageHash, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate perceptual hash: %w", err)
	}
	return hash, nil
}

// FindSimilar hashes every file and returns the pairs whose hamming distance
// is at most threshold. Files that cannot be hashed are reported in errs and
// left out of the comparison.
func FindSimilar(files []string, threshold int) (pairs []SimilarPair, errs []error) {
	type fileHash struct {
		file string
		hash *goimagehash.ImageHash
	}

	var hashes []fileHash
	for _, file := range files {
		hash, err := CalculatePerceptualHash(file)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		hashes = append(hashes, fileHash{file: file, hash: hash})
	}

	for i := 0; i < len(hashes); i++ {
		for j := i + 1; j < len(hashes); j++ {
			distance, err := hashes[i].hash.Distance(hashes[j].hash)
			if err != nil {
				errs = append(errs, fmt.Errorf("compare %s and %s: %w", hashes[i].file, hashes[j].file, err))
				continue
			}
			if distance <= threshold {
				pairs = append(pairs, SimilarPair{A: hashes[i].file, B: hashes[j].file, Distance: distance})
			}
		}
	}
	return pairs, errs
}

// SimilarGroup is a set of images connected by similar pairs.
type SimilarGroup struct {
	Files       []string
	MaxDistance int
}

// GroupSimilar merges pairs that share a file into groups. Groups and the
// files inside them keep first-seen order.
func GroupSimilar(pairs []SimilarPair) []SimilarGroup {
	parent := map[string]string{}
	var order []string
	var find func(string) string
	find = func(f string) string {
		p, ok := parent[f]
		if !ok {
			parent[f] = f
			order = append(order, f)
			return f
		}
		if p == f {
			return f
		}
		root := find(p)
		parent[f] = root
		return root
	}

	for _, pair := range pairs {
		a, b := find(pair.A), find(pair.B)
		if a != b {
			parent[b] = a
		}
	}

	index := map[string]int{}
	var groups []SimilarGroup
	for _, f := range order {
		root := find(f)
		i, ok := index[root]
		if !ok {
			i = len(groups)
			index[root] = i
			groups = append(groups, SimilarGroup{})
		}
		groups[i].Files = append(groups[i].Files, f)
	}
	for _, pair := range pairs {
		g := &groups[index[find(pair.A)]]
		g.MaxDistance = max(g.MaxDistance, pair.Distance)
	}
	return groups
}
