package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/example/framekit/internal/storage"
)

type galleryCmd struct {
	*root
	fs *flag.FlagSet

	uploadPath string
	deleteURL  string
}

func (g *galleryCmd) FlagSet() *flag.FlagSet { return g.fs }

func parseGalleryCmd(args []string, r *root) (*galleryCmd, error) {
	fs := flag.NewFlagSet("gallery", flag.ExitOnError)
	c := &galleryCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.uploadPath, "upload", "", "upload the given PNG or PDF instead of listing")
	fs.StringVar(&c.deleteURL, "delete", "", "delete the composite with the given URL instead of listing")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.uploadPath != "" && c.deleteURL != "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (g *galleryCmd) client() (*storage.Client, error) {
	if g.root.config.Storage.Endpoint == "" {
		return nil, fmt.Errorf("no [storage] endpoint configured, run %s config save and edit the config file", g.root.Program())
	}
	return storage.New(g.root.config.Storage.Endpoint, g.root.config.Storage.Token), nil
}

func (g *galleryCmd) Run() error {
	client, err := g.client()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case g.uploadPath != "":
		return g.upload(ctx, client)
	case g.deleteURL != "":
		if err := client.DeleteImage(ctx, g.deleteURL); err != nil {
			return fmt.Errorf("delete %s: %w", g.deleteURL, err)
		}
		fmt.Printf("deleted %s\n", g.deleteURL)
		return nil
	default:
		return g.list(ctx, client)
	}
}

func (g *galleryCmd) upload(ctx context.Context, client *storage.Client) error {
	var (
		url string
		err error
	)
	if strings.EqualFold(filepath.Ext(g.uploadPath), ".pdf") {
		url, err = client.UploadPDF(ctx, g.uploadPath)
	} else {
		url, err = client.UploadImage(ctx, g.uploadPath)
	}
	if err != nil {
		return fmt.Errorf("upload %s: %w", g.uploadPath, err)
	}
	fmt.Println(url)
	g.root.notifyUpload(url)
	return nil
}

func (g *galleryCmd) list(ctx context.Context, client *storage.Client) error {
	entries, err := client.ListGallery(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoEndpoint) {
			return fmt.Errorf("no [storage] endpoint configured")
		}
		return err
	}
	if len(entries) == 0 {
		fmt.Println("gallery is empty")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tUPLOADED\tURL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Name, e.Size, e.Uploaded.Format("2006-01-02 15:04"), e.URL)
	}
	return tw.Flush()
}
