package cli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/truevail/internal/model"
	"github.com/ppiankov/truevail/internal/pipeline"
)

var (
	analyzeType    string
	imagePath      string
	imageMIME      string
	analyzeTimeout time.Duration
	outJSON        string
	compactOutput  bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text | url | -]",
	Short: "Analyze one text, URL or image",
	Long: `Analyze classifies a single input and prints the verdict as JSON.

Types:
  news      journalistic credibility (default)
  link      source and URL trustworthiness
  advanced  manipulation, framing and emotional bias
  privacy   personal-data exposure
  deepfake  image manipulation (use --image)

URLs are fetched and their article text is analyzed; for privacy the URL itself
is analyzed. With "-" or no argument the text is read from stdin.

Example:
  truevail analyze "You won't believe this SHOCKING secret!!!"
  truevail analyze https://www.bbc.com/news/world --type link
  truevail analyze --type deepfake --image portrait.jpg
  echo "Contact me at jane@example.com" | truevail analyze --type privacy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeType, "type", "t", string(model.KindNews), "analysis type (news, link, advanced, privacy, deepfake)")
	analyzeCmd.Flags().StringVar(&imagePath, "image", "", "image file for deepfake analysis")
	analyzeCmd.Flags().StringVar(&imageMIME, "mime", "", "image MIME type (default: detected)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 30*time.Second, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "also write the verdict to this file")
	analyzeCmd.Flags().BoolVar(&compactOutput, "compact", false, "print single-line JSON")
	addModelFlags(analyzeCmd)
}

// addModelFlags registers the flags shared by analyze, batch and serve
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "LLM provider (gemini, openai, anthropic, ollama; \"none\" disables)")
	cmd.Flags().String("model", "", "LLM model name (default: provider default)")
	cmd.Flags().Duration("llm-timeout", 0, "timeout for one model call")
	cmd.Flags().Duration("fetch-timeout", 0, "timeout for one page fetch")
	cmd.Flags().Bool("no-cache", false, "disable verdict and page caches")
	cmd.Flags().Bool("insecure", false, "skip TLS certificate verification when fetching pages")
	cmd.Flags().String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// commandConfig binds the shared flags and loads the merged configuration
func commandConfig(cmd *cobra.Command) (*model.Config, error) {
	if err := bindFlags(cmd.Flags(), map[string]string{
		"provider":      "llm.provider",
		"model":         "llm.model",
		"llm-timeout":   "llm.timeout",
		"fetch-timeout": "http.timeout",
		"insecure":      "http.insecure_tls",
		"http-proxy":    "http.http_proxy",
		"https-proxy":   "http.https_proxy",
	}); err != nil {
		return nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(cfg.LLM.Provider, "none") {
		cfg.LLM.Provider = ""
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	req, err := buildRequest(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	p := pipeline.NewPipeline(cfg, pipeline.WithLogger(logger))

	logger.Debug("analyzing",
		zap.String("type", string(req.Kind)),
		zap.String("provider", cfg.LLM.Provider),
		zap.Bool("image", req.ImageData != ""))

	result := p.Analyze(ctx, req)

	if err := printResult(cmd.OutOrStdout(), result, compactOutput); err != nil {
		return err
	}
	if outJSON != "" {
		if err := writeResultFile(outJSON, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
	}
	return nil
}

// buildRequest assembles the request from the argument, stdin and --image
func buildRequest(stdin io.Reader, args []string) (model.Request, error) {
	req := model.Request{Kind: model.ParseKind(analyzeType)}

	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return req, fmt.Errorf("read image: %w", err)
		}
		req.Kind = model.KindDeepfake
		req.ImageData = base64.StdEncoding.EncodeToString(data)
		req.MIMEType = imageMIME
		req.Content = filepath.Base(imagePath)
		if len(args) == 1 && args[0] != "-" {
			req.Content = args[0]
		}
		return req, nil
	}

	if len(args) == 1 && args[0] != "-" {
		req.Content = args[0]
		return req, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return req, fmt.Errorf("read stdin: %w", err)
	}
	req.Content = strings.TrimSpace(string(data))
	if req.Content == "" {
		return req, fmt.Errorf("nothing to analyze: pass text, a URL, or --image")
	}
	return req, nil
}

func printResult(w io.Writer, result model.Result, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func writeResultFile(path string, result model.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
