// Command export flattens the crafting dataset into a spreadsheet for
// offline browsing: .xlsx (one sheet each for items, recipes and machines)
// or .csv (items only), chosen by the output file extension.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/BobbyLangan/ultracube-factoriopedia/internal/index"
)

func main() {
	var (
		dataPath string
		iconPath string
		outPath  string
	)
	flag.StringVar(&dataPath, "data", "ultracube_organized_data.json", "dataset document path")
	flag.StringVar(&iconPath, "icons", "icon_mapping.json", "icon mapping document path")
	flag.StringVar(&outPath, "out", "", "output file (.xlsx or .csv) (required)")
	flag.Parse()

	if outPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	idx, err := index.Load(context.Background(), index.FileSource{
		DatasetPath: dataPath,
		IconMapPath: iconPath,
	})
	if err != nil {
		log.Fatalf("load index: %v", err)
	}

	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".xlsx":
		err = writeXLSX(outPath, idx)
	case ".csv":
		err = writeCSV(outPath, idx)
	default:
		log.Fatalf("unsupported output extension: %s", outPath)
	}
	if err != nil {
		log.Fatalf("write %s: %v", outPath, err)
	}
	items, recipes, machines, _ := idx.Len()
	log.Printf("exported %d items, %d recipes, %d machines to %s", items, recipes, machines, outPath)
}

func writeXLSX(path string, idx *index.Index) error {
	f := excelize.NewFile()
	const itemSheet = "Items"
	if err := f.SetSheetName("Sheet1", itemSheet); err != nil {
		return err
	}

	if err := writeSheet(f, itemSheet, []interface{}{"id", "display_name", "type", "icon"}, itemRows(idx)); err != nil {
		return err
	}
	if _, err := f.NewSheet("Recipes"); err != nil {
		return err
	}
	header := []interface{}{"id", "display_name", "category", "crafted_by", "energy_s", "ingredients", "results"}
	if err := writeSheet(f, "Recipes", header, recipeRows(idx)); err != nil {
		return err
	}
	if _, err := f.NewSheet("Machines"); err != nil {
		return err
	}
	if err := writeSheet(f, "Machines", []interface{}{"id", "display_name", "type", "categories"}, machineRows(idx)); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2) // A2, A3, ...
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func itemRows(idx *index.Index) [][]interface{} {
	var rows [][]interface{}
	for _, it := range idx.Items() {
		icon, _ := idx.Icon(it.ID)
		rows = append(rows, []interface{}{it.ID, it.DisplayName, it.Type, icon})
	}
	return rows
}

func recipeRows(idx *index.Index) [][]interface{} {
	var rows [][]interface{}
	for _, r := range idx.Recipes() {
		energy := ""
		if r.HasEnergy {
			energy = strconv.FormatFloat(r.Energy, 'f', -1, 64)
		}
		rows = append(rows, []interface{}{
			r.ID, r.DisplayName, r.Category, r.CraftedBy.Name, energy,
			stackList(r.Ingredients), stackList(r.Results),
		})
	}
	return rows
}

func machineRows(idx *index.Index) [][]interface{} {
	var rows [][]interface{}
	for _, m := range idx.Machines() {
		rows = append(rows, []interface{}{m.ID, m.DisplayName, m.Type, strings.Join(m.Categories, ", ")})
	}
	return rows
}

func stackList(stacks []index.Stack) string {
	parts := make([]string, 0, len(stacks))
	for _, s := range stacks {
		parts = append(parts, fmt.Sprintf("%gx %s", s.Amount, s.Name))
	}
	return strings.Join(parts, ", ")
}

func writeCSV(path string, idx *index.Index) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "display_name", "type", "icon"}); err != nil {
		return err
	}
	for _, it := range idx.Items() {
		icon, _ := idx.Icon(it.ID)
		if err := w.Write([]string{it.ID, it.DisplayName, it.Type, icon}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
