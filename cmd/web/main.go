package main

import (
	"context"
	"log"
	"net/http"

	"github.com/BobbyLangan/ultracube-factoriopedia/internal/config"
	"github.com/BobbyLangan/ultracube-factoriopedia/internal/index"
	"github.com/BobbyLangan/ultracube-factoriopedia/internal/web"
)

func main() {
	cfg := config.Load()

	var src index.Source
	if cfg.DataURL != "" {
		src = index.HTTPSource{
			BaseURL:     cfg.DataURL,
			DatasetFile: "ultracube_organized_data.json",
			IconMapFile: "icon_mapping.json",
		}
	} else {
		src = index.FileSource{
			DatasetPath: cfg.DataPath,
			IconMapPath: cfg.IconMapPath,
		}
	}

	idx, err := index.Load(context.Background(), src)
	if err != nil {
		log.Fatalf("load index: %v", err)
	}
	items, recipes, machines, techs := idx.Len()
	log.Printf("loaded %d items, %d recipes, %d machines, %d technologies", items, recipes, machines, techs)

	srv, err := web.New(idx, src, cfg.IconDir)
	if err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Printf("factoriopedia listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, srv.Handler()))
}
