package platform

import "time"

var instagramScript = script{
	label:         "Instagram",
	cookies:       "instagram",
	homeURL:       "https://www.instagram.com",
	feedURL:       "https://www.instagram.com",
	requiresMedia: "Instagram requires media",
	steps: []step{
		{
			kind: stepClick,
			selectors: []string{
				"//a[contains(@href, '/create/')]",
				"//svg[@aria-label='New post' or @aria-label='Create']/..",
				"//*[name()='svg' and contains(@aria-label, 'New')]/..",
				"//span[text()='Create']/ancestor::a",
			},
			timeout: 5 * time.Second,
			pause:   3 * time.Second,
			failure: "Could not find Create button",
		},
		{
			kind:      stepUpload,
			selectors: fileInputs,
			timeout:   15 * time.Second,
			pause:     5 * time.Second,
			failure:   "Failed to upload image",
		},
		{
			kind:      stepClick,
			selectors: []string{"//div[@role='button' and text()='Next']", "//button[text()='Next']"},
			pause:     3 * time.Second,
			failure:   "First Next error",
		},
		{
			kind:      stepClick,
			selectors: []string{"//div[@role='button' and text()='Next']", "//button[text()='Next']"},
			pause:     3 * time.Second,
			failure:   "Second Next error",
		},
		{
			kind: stepType,
			selectors: []string{
				"//textarea[@aria-label='Write a caption...']",
				"//div[@contenteditable='true' and @role='textbox']",
				"//p[@contenteditable='true']",
			},
			timeout: 5 * time.Second,
			failure: "Could not find caption input",
		},
		{
			kind:      stepClick,
			selectors: []string{"//div[@role='button' and text()='Share']", "//button[text()='Share']"},
			pause:     10 * time.Second,
			failure:   "Share error",
		},
	},
	success: successMessage("Posted to Instagram successfully"),
}
