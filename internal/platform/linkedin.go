package platform

import "time"

var linkedinScript = script{
	label:    "LinkedIn",
	cookies:  "linkedin",
	homeURL:  "https://www.linkedin.com",
	feedURL:  "https://www.linkedin.com/feed/",
	loggedIn: []string{"//button[contains(., 'Start a post')]", ".share-box-feed-entry__trigger"},
	steps: []step{
		{
			kind: stepClick,
			selectors: []string{
				"//button[contains(@class, 'artdeco-button') and contains(., 'Start a post')]",
				"//button[contains(., 'Start a post')]",
				".share-box-feed-entry__trigger",
			},
			timeout: 5 * time.Second,
			pause:   3 * time.Second,
			failure: "Could not find post button",
		},
		{
			kind: stepClick,
			selectors: []string{
				"//button[contains(@aria-label, 'Add media') or contains(@aria-label, 'Add photo')]",
				"//button[.//svg[contains(@data-test-icon, 'image')]]",
				"//button[contains(., 'Photo')]",
			},
			timeout:   5 * time.Second,
			withMedia: true,
			optional:  true,
			failure:   "Could not find media button",
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
			kind:      stepClick,
			selectors: []string{"//button[.//span[contains(text(), 'Next')]]"},
			timeout:   5 * time.Second,
			withMedia: true,
			optional:  true,
			failure:   "No Next button after upload",
		},
		{
			kind: stepType,
			selectors: []string{
				"//div[contains(@class, 'ql-editor') and @contenteditable='true']",
				"//div[@contenteditable='true' and @role='textbox']",
				"//div[@data-placeholder='What do you want to talk about?']",
			},
			timeout: 5 * time.Second,
			failure: "Could not find caption box",
		},
		{
			kind: stepClick,
			selectors: []string{
				"//button[.//span[contains(@class, 'artdeco-button__text') and text()='Post']]",
				"//button[contains(@class, 'share-actions__primary-action') and .//span[text()='Post']]",
				"//button[contains(., 'Post') and contains(@class, 'share-actions')]",
			},
			pause:   5 * time.Second,
			failure: "Could not find post button",
		},
	},
	success: successMessage("Posted to LinkedIn successfully"),
}
