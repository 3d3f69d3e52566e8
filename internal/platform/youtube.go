package platform

import (
	"fmt"
	"time"
)

var visibilityRadios = map[string]string{
	"public":   "PUBLIC",
	"unlisted": "UNLISTED",
	"private":  "PRIVATE",
}

func visibility(req Request) string {
	if _, ok := visibilityRadios[req.Options.YoutubeVisibility]; ok {
		return req.Options.YoutubeVisibility
	}
	return "public"
}

var youtubeScript = script{
	label:         "YouTube",
	cookies:       "youtube",
	homeURL:       "https://www.youtube.com",
	feedURL:       "https://studio.youtube.com",
	requiresMedia: "YouTube requires media",
	steps: []step{
		{
			kind:      stepClick,
			selectors: []string{"//button[@aria-label='Create']", "//ytcp-button[@id='create-icon']"},
			pause:     2 * time.Second,
			failure:   "Error clicking Create",
		},
		{
			kind:      stepClick,
			selectors: []string{"//yt-formatted-string[text()='Upload video']", "//tp-yt-paper-item[@test-id='upload-beta']"},
			pause:     2 * time.Second,
			failure:   "Error clicking Upload video",
		},
		{
			kind:      stepUpload,
			selectors: fileInputs,
			timeout:   15 * time.Second,
			pause:     10 * time.Second,
			failure:   "Video upload failed",
		},
		{
			kind:      stepType,
			selectors: []string{"(//div[@id='textbox' and @contenteditable='true'])[1]"},
			failure:   "Title entry error",
		},
		{
			kind:      stepType,
			selectors: []string{"(//div[@id='textbox' and @contenteditable='true'])[2]"},
			text:      func(req Request) string { return req.Options.YoutubeDescription },
			optional:  true,
			failure:   "Description entry error",
		},
		{
			kind:      stepClick,
			selectors: []string{"//tp-yt-paper-radio-button[@name='VIDEO_MADE_FOR_KIDS_NOT_MFK']"},
			failure:   "Could not set audience",
		},
		{kind: stepClick, selectors: []string{"//button[@id='next-button']", "//ytcp-button[@id='next-button']"}, pause: 2 * time.Second, failure: "Next button error"},
		{kind: stepClick, selectors: []string{"//button[@id='next-button']", "//ytcp-button[@id='next-button']"}, pause: 2 * time.Second, failure: "Next button error"},
		{kind: stepClick, selectors: []string{"//button[@id='next-button']", "//ytcp-button[@id='next-button']"}, pause: 2 * time.Second, failure: "Next button error"},
		{
			kind: stepClick,
			pick: func(req Request) []string {
				return []string{fmt.Sprintf("//tp-yt-paper-radio-button[@name='%s']", visibilityRadios[visibility(req)])}
			},
			failure: "Could not set visibility",
		},
		{
			kind:      stepClick,
			selectors: []string{"//button[@id='done-button']", "//ytcp-button[@id='done-button']"},
			pause:     5 * time.Second,
			failure:   "Publishing error",
		},
	},
	success: func(req Request) string {
		return fmt.Sprintf("Video uploaded to YouTube successfully as %s", visibility(req))
	},
}

var youtubePostScript = script{
	label:   "YouTube",
	cookies: "youtube",
	homeURL: "https://www.youtube.com",
	feedURL: "https://www.youtube.com",
	steps: []step{
		{
			kind:      stepClick,
			selectors: []string{"//button[@aria-label='Create']", "//ytd-topbar-menu-button-renderer[@id='upload-button']//button"},
			pause:     2 * time.Second,
			failure:   "Could not find Create button",
		},
		{
			kind:      stepClick,
			selectors: []string{"//yt-formatted-string[text()='Create post']"},
			pause:     3 * time.Second,
			failure:   "Error clicking Create post",
		},
		{
			kind: stepClick,
			selectors: []string{
				"//button[contains(@aria-label, 'image') or contains(@aria-label, 'photo')]",
				"//button[contains(@aria-label, 'Image') or contains(@aria-label, 'Photo')]",
			},
			withMedia: true,
			optional:  true,
			failure:   "Could not find image button",
		},
		{
			kind:      stepUpload,
			selectors: fileInputs,
			pause:     5 * time.Second,
			withMedia: true,
			optional:  true,
			failure:   "Image upload failed, continuing with text only",
		},
		{
			kind: stepType,
			selectors: []string{
				"//div[@id='contenteditable-root' and @contenteditable='true']",
				"//div[@contenteditable='true' and @role='textbox']",
			},
			failure: "Could not find caption text box",
		},
		{
			kind:      stepClick,
			selectors: []string{"//button[contains(@aria-label, 'Post')]", "//button[contains(., 'Post')]"},
			pause:     5 * time.Second,
			failure:   "Could not find Post button",
		},
	},
	success: successMessage("Posted to YouTube Community successfully"),
}
