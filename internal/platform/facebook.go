package platform

import "time"

var facebookScript = script{
	label:   "Facebook",
	cookies: "facebook",
	homeURL: "https://www.facebook.com",
	feedURL: "https://www.facebook.com",
	steps: []step{
		{
			kind:      stepClick,
			selectors: []string{"//span[contains(text(), \"What's on your mind\")]", "//div[@role='button' and contains(., \"What's on your mind\")]"},
			pause:     3 * time.Second,
			failure:   "Could not open post dialog",
		},
		{
			kind:      stepType,
			selectors: []string{"//div[@contenteditable='true' and @role='textbox']"},
			failure:   "Could not find post text box",
		},
		{
			kind:      stepClick,
			selectors: []string{"//div[@aria-label='Photo/video']"},
			withMedia: true,
			optional:  true,
			failure:   "Could not find Photo/video button",
		},
		{
			kind:      stepUpload,
			selectors: fileInputs,
			pause:     5 * time.Second,
			withMedia: true,
			optional:  true,
			failure:   "Media upload failed, continuing with text only",
		},
		{
			kind:      stepClick,
			selectors: []string{"//span[text()='Post']/ancestor::div[@role='button']", "//div[@aria-label='Post' and @role='button']"},
			pause:     5 * time.Second,
			failure:   "Post button error",
		},
	},
	success: successMessage("Posted to Facebook successfully"),
}
