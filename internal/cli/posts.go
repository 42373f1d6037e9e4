package cli

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/postdeck/scheduler-server-go/internal/model"
)

func newPostsCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage scheduled posts",
	}

	cmd.AddCommand(
		newPostsListCmd(application),
		newPostsCreateCmd(application),
		newPostsEditCmd(application),
		newPostsDeleteCmd(application),
		newPostsPublishCmd(application),
	)

	return cmd
}

func newPostsListCmd(application *app) *cobra.Command {
	var displayOrder bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled and published posts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			posts, err := application.client.ListPosts(cmd.Context(), displayOrder)
			if err != nil {
				return err
			}
			printPosts(cmd, posts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&displayOrder, "by-schedule", false, "Order by scheduled time instead of creation order")

	return cmd
}

func newPostsCreateCmd(application *app) *cobra.Command {
	var draftFlags postDraftFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a new post",
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft, err := draftFlags.draft()
			if err != nil {
				return err
			}
			post, err := application.client.CreatePost(cmd.Context(), draft)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Scheduled post %d for %s %s\n", post.ID, post.ScheduledDate, post.ScheduledTime)
			return nil
		},
	}

	draftFlags.register(cmd)

	return cmd
}

func newPostsEditCmd(application *app) *cobra.Command {
	var draftFlags postDraftFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rewrite an existing post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePostID(args[0])
			if err != nil {
				return err
			}
			draft, err := draftFlags.draft()
			if err != nil {
				return err
			}
			post, err := application.client.UpdatePost(cmd.Context(), id, draft)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated post %d\n", post.ID)
			return nil
		},
	}

	draftFlags.register(cmd)

	return cmd
}

func newPostsDeleteCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePostID(args[0])
			if err != nil {
				return err
			}
			posts, err := application.client.DeletePost(cmd.Context(), id)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %d, %d remaining\n", id, len(posts))
			return nil
		},
	}
}

func newPostsPublishCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a scheduled post now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePostID(args[0])
			if err != nil {
				return err
			}
			if _, err := application.client.PublishPost(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Published post %d\n", id)
			return nil
		},
	}
}

type postDraftFlags struct {
	content   string
	platforms []string
	date      string
	timeOfDay string
	imagePath string
}

func (f *postDraftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.content, "content", "", "Post text")
	cmd.Flags().StringSliceVar(&f.platforms, "platform", nil, "Target platform, repeatable (facebook, instagram, twitter)")
	cmd.Flags().StringVar(&f.date, "date", "", "Scheduled date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.timeOfDay, "time", "", "Scheduled time (HH:MM)")
	cmd.Flags().StringVar(&f.imagePath, "image", "", "Path to an image file to attach")
}

func (f *postDraftFlags) draft() (model.Draft, error) {
	draft := model.Draft{
		Content:       f.content,
		ScheduledDate: f.date,
		ScheduledTime: f.timeOfDay,
	}
	for _, p := range f.platforms {
		draft.Platforms = append(draft.Platforms, model.Platform(strings.ToLower(p)))
	}

	if f.imagePath != "" {
		dataURL, err := encodeImage(f.imagePath)
		if err != nil {
			return model.Draft{}, err
		}
		draft.Image = dataURL
	}

	return draft, nil
}

// encodeImage inlines the file as a data URL, matching how uploads are
// stored alongside the post itself.
func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	contentType := http.DetectContentType(data)
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

func printPosts(cmd *cobra.Command, posts []model.Post) {
	out := cmd.OutOrStdout()
	if len(posts) == 0 {
		_, _ = fmt.Fprintln(out, "No posts")
		return
	}
	for _, post := range posts {
		targets := make([]string, 0, len(post.Platforms))
		for _, p := range post.Platforms {
			targets = append(targets, string(p))
		}
		_, _ = fmt.Fprintf(out, "%d  [%s]  %s %s  %s  %s\n",
			post.ID, post.Status, post.ScheduledDate, post.ScheduledTime,
			strings.Join(targets, ","), post.Content)
	}
}

func parsePostID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("post id must be an integer, got %q", raw)
	}
	return id, nil
}
