package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/yctseng/itemlist/internal/config"
	"github.com/yctseng/itemlist/internal/imaging"
	"github.com/yctseng/itemlist/internal/model"
	"github.com/yctseng/itemlist/internal/sheet"
	"github.com/yctseng/itemlist/internal/store"
	"github.com/yctseng/itemlist/internal/vision"
)

func cmdAdd(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "item name (required unless -analyze fills it)")
	size := fs.String("size", "", "size description")
	qty := fs.Int("qty", model.DefaultQuantity, "quantity")
	location := fs.String("loc", "", "storage location")
	category := fs.String("cat", "", "category")
	photoPath := fs.String("photo", "", "photo file to attach (JPEG or PNG)")
	analyze := fs.Bool("analyze", false, "fill unset fields from the photo via Gemini")
	fs.Parse(args)

	fields := store.Fields{
		Name:     *name,
		Size:     *size,
		Quantity: *qty,
		Location: *location,
		Category: *category,
	}

	if *photoPath != "" {
		photo, err := loadPhoto(*photoPath)
		if err != nil {
			return err
		}
		fields.Photo = photo
	}

	if *analyze {
		if fields.Photo == "" {
			return fmt.Errorf("-analyze needs -photo")
		}
		client, err := newVisionClient(cfg)
		if err != nil {
			return err
		}
		guess, err := client.Analyze(ctx, fields.Photo)
		if err != nil {
			// Best-effort: the fields keep whatever the user typed.
			slog.Warn("analysis failed, fields left as given", "error", err)
			guess = vision.Result{}
		}
		if fields.Name == "" {
			fields.Name = guess.Name
		}
		if fields.Size == "" {
			fields.Size = guess.Size
		}
		if fields.Category == "" {
			fields.Category = guess.Category
		}
		if fields.Location == "" {
			fields.Location = guess.SuggestedLocation
		}
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	item, err := s.Create(fields)
	if err := warnIfUnsaved(err); err != nil {
		return err
	}
	fmt.Printf("added %q (id %s)\n", item.Name, item.ID)
	return nil
}

func cmdEdit(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	name := fs.String("name", "", "item name")
	size := fs.String("size", "", "size description")
	qty := fs.Int("qty", 0, "quantity")
	location := fs.String("loc", "", "storage location")
	category := fs.String("cat", "", "category")
	photoPath := fs.String("photo", "", "replacement photo file")
	clearPhoto := fs.Bool("clear-photo", false, "remove the photo")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: itemlist edit <id> [flags]")
	}
	id := fs.Arg(0)

	s, err := openStore(cfg)
	if err != nil {
		return err
	}

	// The edit starts from the record as it is now; flags override
	// individual fields, everything else is carried over unchanged.
	var current model.Item
	found := false
	for _, item := range s.List() {
		if item.ID == id {
			current, found = item, true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}

	fields := store.Fields{
		Name:     current.Name,
		Photo:    current.Photo,
		Size:     current.Size,
		Quantity: current.Quantity,
		Location: current.Location,
		Category: current.Category,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			fields.Name = *name
		case "size":
			fields.Size = *size
		case "qty":
			fields.Quantity = *qty
		case "loc":
			fields.Location = *location
		case "cat":
			fields.Category = *category
		case "clear-photo":
			if *clearPhoto {
				fields.Photo = ""
			}
		}
	})
	if *photoPath != "" {
		photo, err := loadPhoto(*photoPath)
		if err != nil {
			return err
		}
		fields.Photo = photo
	}

	item, err := s.Update(id, fields)
	if err := warnIfUnsaved(err); err != nil {
		return err
	}
	fmt.Printf("updated %q (id %s)\n", item.Name, item.ID)
	return nil
}

func cmdRemove(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	yes := fs.Bool("y", false, "skip the confirmation prompt")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: itemlist rm [-y] <id>")
	}
	id := fs.Arg(0)

	if !*yes && !confirm(fmt.Sprintf("delete item %s?", id)) {
		fmt.Println("aborted")
		return nil
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err := warnIfUnsaved(s.Delete(id)); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}

func cmdList(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "filter by name, location, or category")
	sortBy := fs.String("sort", string(store.SortNewest), "sort key: newest, name, or quantity")
	fs.Parse(args)

	switch store.SortKey(*sortBy) {
	case store.SortNewest, store.SortName, store.SortQuantity:
	default:
		return fmt.Errorf("unknown sort key %q", *sortBy)
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	items := store.Project(s.List(), *search, store.SortKey(*sortBy))

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tQTY\tSIZE\tLOCATION\tCATEGORY\tCREATED\tID")
	for _, item := range items {
		photo := ""
		if item.Photo != "" {
			photo = " *"
		}
		fmt.Fprintf(w, "%s%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			item.Name, photo, item.Quantity, item.Size, item.Location,
			item.Category, item.Created().Format("2006/01/02 15:04"), item.ID)
	}
	w.Flush()
	fmt.Printf("\n%d items, %d total stock\n", s.Len(), s.TotalQuantity())
	return nil
}

func cmdImport(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: itemlist import <file.xlsx>")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	items, err := sheet.Import(f)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no rows found, nothing imported")
		return nil
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err := warnIfUnsaved(s.BulkPrepend(items)); err != nil {
		return err
	}
	fmt.Printf("imported %d items\n", len(items))
	return nil
}

func cmdExport(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "output path (default: 物品清單_<date>.xlsx)")
	fs.Parse(args)

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	items := s.List()
	if len(items) == 0 {
		return fmt.Errorf("%w: nothing to export", model.ErrEmptyCollection)
	}

	path := *out
	if path == "" {
		path = sheet.FileName(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	if err := sheet.Export(f, items); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	fmt.Printf("exported %d items to %s\n", len(items), path)
	return nil
}

func cmdAnalyze(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: itemlist analyze <photo file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}
	photo, err := imaging.Normalize(data)
	if err != nil {
		return err
	}

	client, err := newVisionClient(cfg)
	if err != nil {
		return err
	}
	guess, err := client.Analyze(ctx, photo)
	if err != nil {
		return err
	}

	fmt.Printf("name:     %s\nsize:     %s\ncategory: %s\nlocation: %s\n",
		guess.Name, guess.Size, guess.Category, guess.SuggestedLocation)
	return nil
}
