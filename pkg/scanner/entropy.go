package scanner

import (
	"io"
	"math"
	"os"

	"github.com/aegis-watch/aegisd/pkg/errors"
)

const entropyBlockSize = 1024

// Entropy computes the Shannon entropy of a file over byte-value
// frequencies, reading it in blockSize chunks. The result is in [0, 8] bits
// per byte; an empty file has entropy 0. High entropy suggests packed or
// encrypted content but is a heuristic, not a verdict.
func Entropy(path string, blockSize int) (float64, error) {
	if blockSize <= 0 {
		blockSize = entropyBlockSize
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NewNotFound(path)
		}
		return 0, errors.NewIO("open", path, err)
	}
	defer f.Close()

	var counts [256]int64
	var total int64

	buf := make([]byte, blockSize)
	for {
		n, err := f.Read(buf)
		for _, b := range buf[:n] {
			counts[b]++
		}
		total += int64(n)

		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.NewIO("read", path, err)
		}
	}

	if total == 0 {
		return 0, nil
	}

	var entropy float64
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}

	return entropy, nil
}
