// consentctl es el cliente de línea de comandos del API administrativo.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func main() {
	cli := &client{HTTP: &http.Client{Timeout: 15 * time.Second}}

	root := &cobra.Command{
		Use:   "consentctl",
		Short: "Cliente del API administrativo de consentd",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cli.BaseURL == "" {
				cli.BaseURL = os.Getenv("CONSENTD_URL")
			}
			if cli.BaseURL == "" {
				cli.BaseURL = "http://localhost:8080"
			}
			if cli.Token == "" {
				cli.Token = os.Getenv("CONSENTD_TOKEN")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cli.BaseURL, "url", "", "base URL del servicio (default $CONSENTD_URL)")
	root.PersistentFlags().StringVar(&cli.Token, "token", "", "access token admin (default $CONSENTD_TOKEN)")
	root.PersistentFlags().StringVarP(&cli.OutFormat, "output", "o", "json", "formato de salida: json | text")

	appsCmd := &cobra.Command{Use: "apps", Short: "Operaciones sobre aplicaciones cliente"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista las aplicaciones registradas",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cli.do(http.MethodGet, "/admin/applications", nil)
			if err != nil {
				return err
			}
			cli.print(status, body)
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <client_id>",
		Short: "Muestra una aplicación",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cli.do(http.MethodGet, "/admin/applications/"+args[0], nil)
			if err != nil {
				return err
			}
			cli.print(status, body)
			return nil
		},
	}

	var payloadPath string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Registra una aplicación (descriptor JSON por -f, '-' para stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(payloadPath)
			if err != nil {
				return err
			}
			status, body, err := cli.do(http.MethodPost, "/admin/applications", payload)
			if err != nil {
				return err
			}
			cli.print(status, body)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&payloadPath, "file", "f", "-", "archivo con el descriptor JSON")

	var updatePath string
	updateCmd := &cobra.Command{
		Use:   "update <client_id>",
		Short: "Reemplaza una aplicación (full replace)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(updatePath)
			if err != nil {
				return err
			}
			status, body, err := cli.do(http.MethodPut, "/admin/applications/"+args[0], payload)
			if err != nil {
				return err
			}
			cli.print(status, body)
			return nil
		},
	}
	updateCmd.Flags().StringVarP(&updatePath, "file", "f", "-", "archivo con el descriptor JSON")

	deleteCmd := &cobra.Command{
		Use:   "delete <client_id>",
		Short: "Elimina una aplicación",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cli.do(http.MethodDelete, "/admin/applications/"+args[0], nil)
			if err != nil {
				return err
			}
			cli.print(status, body)
			return nil
		},
	}

	appsCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd)
	root.AddCommand(appsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
