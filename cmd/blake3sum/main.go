// Command blake3sum is the thin CLI collaborator spec.md places out of
// scope for the hashing core: it wires the library to a filesystem and a
// terminal, nothing more.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/urfave/cli"

	"github.com/blake3go/blake3/blake3"
	"github.com/blake3go/blake3/hexutil"
	"github.com/blake3go/blake3/internal/dedupe"
	"github.com/blake3go/blake3/internal/hashcache"
)

func main() {
	app := cli.NewApp()
	app.Name = "blake3sum"
	app.Usage = "compute BLAKE3 digests of files"
	app.ArgsUsage = "FILES..."
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "config file (default: ~/.blake3sum.yaml)"},
		cli.IntFlag{Name: "length", Value: blake3.OutLen, Usage: "output length in bytes"},
		cli.StringFlag{Name: "keyed", Usage: "path to a 32-byte key file for keyed hashing"},
		cli.StringFlag{Name: "derive-key", Usage: "derive a key from each file's content, under this context"},
		cli.BoolFlag{Name: "check", Usage: "verify digests listed in the given manifest files"},
		cli.BoolFlag{Name: "dedupe", Usage: "report files that hash identically"},
		cli.BoolFlag{Name: "verbose", Usage: "log progress"},
	}
	app.Before = loadConfig
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logrus.Errorf("blake3sum: %v", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) error {
	if path := c.String("config"); path != "" {
		viper.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".blake3sum")
		viper.SetConfigType("yaml")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func run(c *cli.Context) error {
	if c.Bool("verbose") {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	length := c.Int("length")
	if viper.IsSet("length") && !c.IsSet("length") {
		length = viper.GetInt("length")
	}

	files := c.Args()
	if len(files) == 0 {
		return fmt.Errorf("no files given")
	}

	if c.Bool("check") {
		return runCheck(files)
	}
	if context := c.String("derive-key"); context != "" {
		return runDeriveKey(context, length, files)
	}
	return runHash(length, c.String("keyed"), c.Bool("dedupe"), files)
}

// runDeriveKey treats each file's content as the material argument to
// derive_key(context, material, out), printing one derived key per file.
func runDeriveKey(context string, length int, files []string) error {
	failed := false
	for _, path := range files {
		material, err := os.ReadFile(path)
		if err != nil {
			logrus.WithField("path", path).Errorf("read failed: %v", err)
			failed = true
			continue
		}
		out := make([]byte, length)
		blake3.DeriveKey(context, material, out)
		fmt.Printf("%s  %s\n", hexutil.EncodeToString(out), path)
	}
	if failed {
		return fmt.Errorf("one or more files could not be read")
	}
	return nil
}

func runHash(length int, keyPath string, dedupeFlag bool, files []string) error {
	var keyed *[blake3.KeyLen]byte
	if keyPath != "" {
		raw, err := os.ReadFile(keyPath)
		if err != nil {
			return fmt.Errorf("read key file: %w", err)
		}
		if len(raw) != blake3.KeyLen {
			return fmt.Errorf("key file must be exactly %d bytes, got %d", blake3.KeyLen, len(raw))
		}
		var key [blake3.KeyLen]byte
		copy(key[:], raw)
		keyed = &key
	}

	cache, err := hashcache.New(int64(len(files)))
	if err != nil {
		return err
	}

	var dupes *dedupe.Set
	if dedupeFlag {
		dupes = dedupe.New(uint32(len(files)))
	}

	failed := false
	for _, path := range files {
		digest, err := hashFile(path, length, keyed, cache)
		if err != nil {
			logrus.WithField("path", path).Errorf("hash failed: %v", err)
			failed = true
			continue
		}
		fmt.Printf("%s  %s\n", hexutil.EncodeToString(digest), path)

		if dupes != nil && length == blake3.OutLen {
			var d dedupe.Hash
			copy(d[:], digest)
			dupes.Add(d, path)
		}
	}

	if dupes != nil {
		for digest, paths := range dupes.Duplicates() {
			fmt.Printf("duplicate %s:\n", hexutil.EncodeToString(digest[:]))
			for _, p := range paths {
				fmt.Printf("  %s\n", p)
			}
		}
	}

	if failed {
		return fmt.Errorf("one or more files could not be hashed")
	}
	return nil
}

// runCheck reads each manifest path as a sequence of "hex-digest  filename"
// lines (the shape runHash prints) and re-hashes every named file to
// confirm it still matches, the conventional `*sum --check` behavior.
// Verified files go through the same hashcache-backed hashFile as runHash,
// so within one invocation a file named again with unchanged size and
// modtime is not re-read; the cache starts empty on every run.
func runCheck(manifests []string) error {
	cache, err := hashcache.New(int64(len(manifests)) * 64)
	if err != nil {
		return err
	}

	mismatches := 0
	checked := 0

	for _, manifestPath := range manifests {
		f, err := os.Open(manifestPath)
		if err != nil {
			return fmt.Errorf("open manifest %s: %w", manifestPath, err)
		}

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			wantHex, path, ok := strings.Cut(line, "  ")
			if !ok {
				logrus.WithField("line", line).Warn("skipping malformed manifest line")
				continue
			}

			checked++
			got, err := hashFile(path, blake3.OutLen, nil, cache)
			if err != nil {
				fmt.Printf("%s: FAILED open or read (%v)\n", path, err)
				mismatches++
				continue
			}
			if hexutil.EncodeToString(got) == wantHex {
				fmt.Printf("%s: OK\n", path)
			} else {
				fmt.Printf("%s: FAILED\n", path)
				mismatches++
			}
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return fmt.Errorf("read manifest %s: %w", manifestPath, err)
		}
	}

	if mismatches > 0 {
		return fmt.Errorf("%d of %d checked files failed verification", mismatches, checked)
	}
	return nil
}

func hashFile(path string, length int, keyed *[blake3.KeyLen]byte, cache *hashcache.Cache) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if keyed == nil && length == blake3.OutLen {
		if digest, ok := cache.Get(path, info); ok {
			logrus.WithField("path", path).Info("cache hit")
			return digest[:], nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var h *blake3.Hasher
	if keyed != nil {
		h = blake3.NewKeyed(*keyed)
	} else {
		h = blake3.New()
	}

	_, err = h.WriteReader(f, nil, uint64(info.Size()), func(p blake3.Progress) {
		logrus.WithFields(logrus.Fields{
			"path":      filepath.Base(path),
			"processed": p.Processed,
			"total":     p.Total,
		}).Debug("hashing")
	})
	if err != nil {
		return nil, err
	}

	out := make([]byte, length)
	h.Finalize(out)

	if keyed == nil && length == blake3.OutLen {
		var digest hashcache.Digest
		copy(digest[:], out)
		cache.Set(path, info, digest)
	}

	return out, nil
}
