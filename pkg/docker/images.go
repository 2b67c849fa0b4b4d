package docker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/pkg/jsonmessage"
)

// PullImage pulls an image, draining the full progress stream. An error
// reported anywhere in the stream fails the pull.
func (c *Client) PullImage(ctx context.Context, imageRef string) error {
	log.Info("Pulling image", "image", imageRef)

	reader, err := c.cli.ImagePull(ctx, imageRef, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageRef, err)
	}
	defer reader.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(reader, io.Discard, 0, false, nil); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageRef, err)
	}

	log.Info("Image pulled", "image", imageRef)
	return nil
}

// BuildImage builds an image from a tar build context, tagging it with tag.
// dockerfile is the path of the Dockerfile inside the context. Like pulls,
// the build stream is drained fully so late errors are not lost.
func (c *Client) BuildImage(ctx context.Context, buildContext io.Reader, dockerfile, tag string) error {
	log.Info("Building image", "tag", tag, "dockerfile", dockerfile)

	resp, err := c.cli.ImageBuild(ctx, buildContext, types.ImageBuildOptions{
		Dockerfile: dockerfile,
		Tags:       []string{tag},
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image %s: %w", tag, err)
	}
	defer resp.Body.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, io.Discard, 0, false, nil); err != nil {
		return fmt.Errorf("failed to build image %s: %w", tag, err)
	}

	log.Info("Image built", "tag", tag)
	return nil
}

// FormatImageRef appends ":latest" to untagged image references.
func FormatImageRef(imageRef string) string {
	if strings.Contains(imageRef, ":") {
		return imageRef
	}
	return imageRef + ":latest"
}

// ImageBaseName strips the tag from an image reference.
func ImageBaseName(imageRef string) string {
	base, _, _ := strings.Cut(imageRef, ":")
	return base
}
