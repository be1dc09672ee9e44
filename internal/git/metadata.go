package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Signature identifies an author or committer.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Metadata describes a single commit.
type Metadata struct {
	Hash      string
	Author    Signature
	Committer Signature
	Parents   []string
	Subject   string
	Body      string
	Signed    bool
}

// Short returns the abbreviated hash.
func (m Metadata) Short() string {
	if len(m.Hash) > 7 {
		return m.Hash[:7]
	}
	return m.Hash
}

// readNativeMetadata is swapped in tests to force the CLI path.
var readNativeMetadata = nativeMetadata

// Metadata loads commit details, preferring go-git and falling back to the
// CLI for repositories go-git cannot read.
func (r *Repo) Metadata(ctx context.Context, commit string) (Metadata, error) {
	if meta, err := readNativeMetadata(r.path, commit); err == nil {
		return meta, nil
	}
	return r.cliMetadata(ctx, commit)
}

func nativeMetadata(path, rev string) (Metadata, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Metadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return Metadata{}, fmt.Errorf("resolve %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return Metadata{}, fmt.Errorf("commit %s: %w", hash, err)
	}
	parents := make([]string, 0, len(commit.ParentHashes))
	for _, p := range commit.ParentHashes {
		parents = append(parents, p.String())
	}
	subject, body := splitMessage(commit.Message)
	return Metadata{
		Hash:      commit.Hash.String(),
		Author:    Signature{Name: commit.Author.Name, Email: commit.Author.Email, When: commit.Author.When},
		Committer: Signature{Name: commit.Committer.Name, Email: commit.Committer.Email, When: commit.Committer.When},
		Parents:   parents,
		Subject:   subject,
		Body:      body,
		Signed:    strings.TrimSpace(commit.PGPSignature) != "",
	}, nil
}

const metadataFormat = "%H%x00%an%x00%ae%x00%at%x00%cn%x00%ce%x00%ct%x00%P%x00%G?%x00%B"

func (r *Repo) cliMetadata(ctx context.Context, commit string) (Metadata, error) {
	out, err := r.run(ctx, []string{"show", "-s", "--format=" + metadataFormat, commit, "--"}, false, "git show -s")
	if err != nil {
		return Metadata{}, err
	}
	return parseMetadata(out)
}

func parseMetadata(out string) (Metadata, error) {
	fields := strings.SplitN(out, "\x00", 10)
	if len(fields) != 10 {
		return Metadata{}, fmt.Errorf("unexpected metadata format: %d fields", len(fields))
	}
	authorWhen, err := parseUnix(fields[3])
	if err != nil {
		return Metadata{}, err
	}
	committerWhen, err := parseUnix(fields[6])
	if err != nil {
		return Metadata{}, err
	}
	subject, body := splitMessage(fields[9])
	return Metadata{
		Hash:      strings.TrimSpace(fields[0]),
		Author:    Signature{Name: fields[1], Email: fields[2], When: authorWhen},
		Committer: Signature{Name: fields[4], Email: fields[5], When: committerWhen},
		Parents:   strings.Fields(fields[7]),
		Subject:   subject,
		Body:      body,
		Signed:    strings.TrimSpace(fields[8]) != "N" && strings.TrimSpace(fields[8]) != "",
	}, nil
}

func parseUnix(value string) (time.Time, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return time.Unix(secs, 0), nil
}

func splitMessage(message string) (string, string) {
	message = strings.TrimRight(message, "\n")
	subject, body, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(subject), strings.Trim(body, "\n")
}
