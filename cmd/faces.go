package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/campus-tracker/internal/config"
	"github.com/kozaktomas/campus-tracker/internal/recognizer"
)

var facesCmd = &cobra.Command{
	Use:   "faces",
	Short: "Manage known-face embeddings",
}

var facesAddCmd = &cobra.Command{
	Use:   "add PERSON_ID EMBEDDING_FILE",
	Short: "Register a reference embedding for a person",
	Long: `Register a reference embedding for a person. The embedding file holds
a JSON array of 512 floats produced by the external face recognition
service. Requires DATABASE_URL.`,
	Args: cobra.ExactArgs(2),
	RunE: runFacesAdd,
}

var facesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered persons",
	RunE:  runFacesList,
}

func init() {
	rootCmd.AddCommand(facesCmd)
	facesCmd.AddCommand(facesAddCmd)
	facesCmd.AddCommand(facesListCmd)
}

func runFacesAdd(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	if db == nil {
		return errors.New("DATABASE_URL environment variable is required")
	}
	defer db.Close()

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read embedding file: %w", err)
	}

	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		return fmt.Errorf("failed to parse embedding file: %w", err)
	}

	if err := db.SaveFace(context.Background(), args[0], embedding); err != nil {
		return err
	}

	fmt.Printf("Registered %s\n", recognizer.NormalizePersonID(args[0]))
	return nil
}

func runFacesList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	if db == nil {
		return errors.New("DATABASE_URL environment variable is required")
	}
	defer db.Close()

	faces, err := db.ListFaces(context.Background())
	if err != nil {
		return err
	}

	if len(faces) == 0 {
		fmt.Println("No faces registered")
		return nil
	}
	for _, face := range faces {
		fmt.Printf("%s (%d dims)\n", face.PersonID, len(face.Embedding))
	}
	return nil
}
