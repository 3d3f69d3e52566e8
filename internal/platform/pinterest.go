package platform

import "time"

var pinterestScript = script{
	label:         "Pinterest",
	cookies:       "pinterest",
	homeURL:       "https://www.pinterest.com",
	feedURL:       "https://www.pinterest.com/pin-creation-tool/",
	requiresMedia: "Pinterest requires media",
	steps: []step{
		{
			kind:      stepUpload,
			selectors: append([]string{"//input[@id='storyboard-upload-input']"}, fileInputs...),
			timeout:   15 * time.Second,
			pause:     5 * time.Second,
			failure:   "Image upload failed",
		},
		{
			kind:      stepType,
			selectors: []string{"//input[@id='storyboard-selector-title']"},
			failure:   "Title entry failed",
		},
		{
			kind:      stepType,
			selectors: []string{"//textarea[@id='storyboard-selector-description']", "//div[@id='storyboard-selector-description']//div[@contenteditable='true']"},
			text:      func(req Request) string { return req.Options.PinterestDesc },
			optional:  true,
			failure:   "Description entry failed",
		},
		{
			kind:      stepType,
			selectors: []string{"//input[@id='WebsiteField']", "//input[contains(@placeholder, 'link')]"},
			text:      func(req Request) string { return req.Options.PinterestLink },
			optional:  true,
			failure:   "Link entry failed",
		},
		{
			kind:      stepClick,
			selectors: []string{"//div[contains(@class, 'lIkAnG') and text()='Publish']", "//button[.//div[text()='Publish']]", "//div[text()='Publish']"},
			pause:     5 * time.Second,
			failure:   "Publishing error",
		},
	},
	success: successMessage("Posted to Pinterest successfully"),
}
